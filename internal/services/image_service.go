package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

var ErrImageType = errors.New("image type not allowed")

// ImageStore persists an uploaded image and returns the path or URL to save
// on the record.
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

// ImageService validates uploads and hands them to an ImageStore.
type ImageService struct {
	store   ImageStore
	allowed []string
}

func NewImageService(store ImageStore, allowed []string) *ImageService {
	return &ImageService{store: store, allowed: allowed}
}

// Check rejects a header whose filename is not an allowed image. It reads
// nothing and stores nothing; a nil header passes.
func (s *ImageService) Check(fh *multipart.FileHeader) error {
	if fh == nil || fh.Filename == "" {
		return nil
	}
	if !AllowedImage(fh.Filename, s.allowed) || SecureFilename(fh.Filename) == "" {
		return ErrImageType
	}
	return nil
}

// Upload stores fh and returns its picture path. A nil header stores nothing
// and returns "".
func (s *ImageService) Upload(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if fh == nil || fh.Filename == "" {
		return "", nil
	}
	if err := s.Check(fh); err != nil {
		return "", err
	}
	name := SecureFilename(fh.Filename)

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	key := uuid.NewString()[:8] + "_" + name
	return s.store.Save(ctx, key, f, fh.Size, fh.Header.Get("Content-Type"))
}

// AllowedImage reports whether filename has an extension in allowed.
func AllowedImage(filename string, allowed []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces a client supplied name to a flat ASCII filename:
// path parts are dropped, whitespace becomes "_", leading dots and
// underscores are trimmed.
func SecureFilename(filename string) string {
	filename = norm.NFKD.String(filename)
	filename = strings.Map(func(r rune) rune {
		if r > 0x7f {
			return -1
		}
		return r
	}, filename)

	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = path.Base(filename)
	filename = strings.Join(strings.Fields(filename), "_")
	filename = unsafeFilenameChars.ReplaceAllString(filename, "")
	filename = strings.TrimLeft(filename, "._")
	if filename == "" || filename == "." {
		return ""
	}
	return filename
}

// LocalImageStore writes images to a directory served under /static.
type LocalImageStore struct {
	dir       string
	urlPrefix string
}

// NewLocalImageStore writes to dir; saved images are referred to as
// urlPrefix/<name> (for example "images/<name>").
func NewLocalImageStore(dir, urlPrefix string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", dir, err)
	}
	return &LocalImageStore{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

func (s *LocalImageStore) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close image file: %w", err)
	}
	return s.urlPrefix + "/" + name, nil
}

// ObjectPutter is the subset of *s3.Client used by S3ImageStore.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configures an S3 compatible bucket (AWS, MinIO).
type S3Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string
}

// S3ImageStore writes images to a bucket and returns their public URL.
type S3ImageStore struct {
	client    ObjectPutter
	bucket    string
	publicURL string
}

func NewS3ImageStore(client ObjectPutter, bucket, publicURL string) *S3ImageStore {
	return &S3ImageStore{client: client, bucket: bucket, publicURL: strings.TrimSuffix(publicURL, "/")}
}

// NewS3Client builds a path-style client with static credentials.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = true
	}), nil
}

func (s *S3ImageStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	key := "images/" + name
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if size > 0 {
		in.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("put image object: %w", err)
	}
	return s.publicURL + "/" + key, nil
}
