package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrEmailRequired = errors.New("email is required")
)

// Profile is what the identity provider knows about a user.
type Profile struct {
	Name    string
	Email   string
	Picture string
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("name ASC, id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	switch {
	case err == nil:
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrUserNotFound
	default:
		return nil, fmt.Errorf("get user: %w", err)
	}
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	switch {
	case err == nil:
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrUserNotFound
	default:
		return nil, fmt.Errorf("get user by email: %w", err)
	}
}

// Create adds a user. Emails are unique.
func (s *UserService) Create(ctx context.Context, p Profile) (*models.User, error) {
	name, err := cleanName(p.Name)
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(p.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	if _, err := s.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user := models.User{Name: name, Email: email, Picture: strings.TrimSpace(p.Picture)}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Update changes the name and picture of a user. Users may only edit themselves.
func (s *UserService) Update(ctx context.Context, actorID, id uint, name, picture string) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(user.ID, actorID); err != nil {
		return nil, err
	}
	if user.Name, err = cleanName(name); err != nil {
		return nil, err
	}
	user.Picture = strings.TrimSpace(picture)

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error; err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Delete removes a user, their categories (with every item in them) and
// their items in one transaction. Users may only delete themselves.
func (s *UserService) Delete(ctx context.Context, actorID, id uint) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwner(user.ID, actorID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&models.Category{}).Select("id").Scopes(OwnedBy(user.ID))
		if err := tx.Where("category_id IN (?)", owned).Delete(&models.Item{}).Error; err != nil {
			return fmt.Errorf("delete items in user categories: %w", err)
		}
		if err := tx.Scopes(OwnedBy(user.ID)).Delete(&models.Item{}).Error; err != nil {
			return fmt.Errorf("delete user items: %w", err)
		}
		if err := tx.Scopes(OwnedBy(user.ID)).Delete(&models.Category{}).Error; err != nil {
			return fmt.Errorf("delete user categories: %w", err)
		}
		if err := tx.Delete(&models.User{}, user.ID).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

// FindOrCreate returns the user with the profile's email, refreshing name
// and picture, or creates one. created reports which happened.
func (s *UserService) FindOrCreate(ctx context.Context, p Profile) (user *models.User, created bool, err error) {
	email := normalizeEmail(p.Email)
	if email == "" {
		return nil, false, ErrEmailRequired
	}

	user, err = s.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return s.refresh(ctx, user, p)
	case !errors.Is(err, ErrUserNotFound):
		return nil, false, err
	}

	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = email
	}
	user = &models.User{Name: name, Email: email, Picture: p.Picture}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent login for the same email.
			existing, getErr := s.GetByEmail(ctx, email)
			if getErr != nil {
				return nil, false, getErr
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	return user, true, nil
}

func (s *UserService) refresh(ctx context.Context, user *models.User, p Profile) (*models.User, bool, error) {
	updates := map[string]interface{}{}
	if name := strings.TrimSpace(p.Name); name != "" && name != user.Name {
		updates["name"] = name
	}
	if p.Picture != "" && p.Picture != user.Picture {
		updates["picture"] = p.Picture
	}
	if len(updates) == 0 {
		return user, false, nil
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, false, fmt.Errorf("refresh user profile: %w", err)
	}
	if name, ok := updates["name"].(string); ok {
		user.Name = name
	}
	if picture, ok := updates["picture"].(string); ok {
		user.Picture = picture
	}
	return user, false, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
