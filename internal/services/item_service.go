package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrItemNotFound = errors.New("item not found")
	ErrItemExists   = errors.New("item already exists in category")
	ErrDateInvalid  = errors.New("date must be YYYY-MM-DD")
)

// ItemInput carries the editable fields of an item form. Upload, when set,
// is stored only once every other check has passed and wins over Picture.
// An empty Picture and no Upload on update keeps the current picture.
type ItemInput struct {
	Name        string
	Category    string
	Description string
	Picture     string
	Upload      *multipart.FileHeader
	DateCreated time.Time
}

type ItemService struct {
	db         *gorm.DB
	categories *CategoryService
	images     *ImageService
}

// NewItemService builds the service; images may be nil when uploads are not
// accepted.
func NewItemService(db *gorm.DB, categories *CategoryService, images *ImageService) *ItemService {
	return &ItemService{db: db, categories: categories, images: images}
}

func (s *ItemService) preloaded(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Category").Preload("User")
}

// List returns every item, newest first.
func (s *ItemService) List(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := s.preloaded(ctx).Order("date_created DESC, id DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// ListByCategory returns the named category and its items, newest first.
func (s *ItemService) ListByCategory(ctx context.Context, categoryName string) (*models.Category, []models.Item, error) {
	category, err := s.categories.GetByName(ctx, categoryName)
	if err != nil {
		return nil, nil, err
	}
	var items []models.Item
	err = s.preloaded(ctx).Where("category_id = ?", category.ID).
		Order("date_created DESC, id DESC").Find(&items).Error
	if err != nil {
		return nil, nil, fmt.Errorf("list category items: %w", err)
	}
	return category, items, nil
}

func (s *ItemService) Get(ctx context.Context, id uint) (*models.Item, error) {
	return s.first(s.preloaded(ctx).Where("items.id = ?", id))
}

func (s *ItemService) GetByCategoryAndName(ctx context.Context, categoryName, itemName string) (*models.Item, error) {
	category, err := s.categories.GetByName(ctx, categoryName)
	if err != nil {
		return nil, err
	}
	return s.first(s.preloaded(ctx).Where("category_id = ? AND name = ?", category.ID, itemName))
}

func (s *ItemService) first(q *gorm.DB) (*models.Item, error) {
	var item models.Item
	err := q.First(&item).Error
	switch {
	case err == nil:
		return &item, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrItemNotFound
	default:
		return nil, fmt.Errorf("get item: %w", err)
	}
}

// Create adds an item to the named category. Names are unique per category.
func (s *ItemService) Create(ctx context.Context, userID uint, in ItemInput) (*models.Item, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	category, err := s.categories.GetByName(ctx, in.Category)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, category.ID, name, 0); err != nil {
		return nil, err
	}
	picture, err := s.picture(ctx, in)
	if err != nil {
		return nil, err
	}

	item := models.Item{
		Name:        name,
		CategoryID:  category.ID,
		UserID:      userID,
		Picture:     picture,
		Description: strings.TrimSpace(in.Description),
		DateCreated: dateOrToday(in.DateCreated),
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrItemExists
		}
		return nil, fmt.Errorf("create item: %w", err)
	}
	return s.Get(ctx, item.ID)
}

// Update replaces the editable fields of an item. Only its creator may do
// so, and the item may keep its own name.
func (s *ItemService) Update(ctx context.Context, userID, id uint, in ItemInput) (*models.Item, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(item.UserID, userID); err != nil {
		return nil, err
	}
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	category, err := s.categories.GetByName(ctx, in.Category)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, category.ID, name, item.ID); err != nil {
		return nil, err
	}
	picture, err := s.picture(ctx, in)
	if err != nil {
		return nil, err
	}

	item.Name = name
	item.CategoryID = category.ID
	item.Description = strings.TrimSpace(in.Description)
	item.DateCreated = dateOrToday(in.DateCreated)
	if picture != "" {
		item.Picture = picture
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrItemExists
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	return s.Get(ctx, item.ID)
}

// Delete removes an item. Only its creator may do so.
func (s *ItemService) Delete(ctx context.Context, userID, id uint) (*models.Item, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(item.UserID, userID); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Item{}, item.ID).Error; err != nil {
		return nil, fmt.Errorf("delete item: %w", err)
	}
	return item, nil
}

// picture stores in.Upload if there is one, else returns the typed Picture.
func (s *ItemService) picture(ctx context.Context, in ItemInput) (string, error) {
	if in.Upload == nil || in.Upload.Filename == "" {
		return strings.TrimSpace(in.Picture), nil
	}
	if s.images == nil {
		return "", ErrImageType
	}
	return s.images.Upload(ctx, in.Upload)
}

func (s *ItemService) ensureUnique(ctx context.Context, categoryID uint, name string, except uint) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("category_id = ? AND name = ?", categoryID, name).
		Scopes(Except(except)).Count(&count).Error
	if err != nil {
		return fmt.Errorf("check item name: %w", err)
	}
	if count > 0 {
		return ErrItemExists
	}
	return nil
}

// ParseDate reads a YYYY-MM-DD form value. Empty means today.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return models.Day(time.Now()), nil
	}
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrDateInvalid, value)
	}
	return t, nil
}

func dateOrToday(t time.Time) time.Time {
	if t.IsZero() {
		return models.Day(time.Now())
	}
	return models.Day(t)
}
