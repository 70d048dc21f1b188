package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// List returns every category ordered by name, creators loaded.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Preload("User").Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Names returns every category name, sorted.
func (s *CategoryService) Names(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Order("name ASC").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("list category names: %w", err)
	}
	return names, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	return s.first(ctx, s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *CategoryService) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return s.first(ctx, s.db.WithContext(ctx).Where("name = ?", name))
}

func (s *CategoryService) first(_ context.Context, q *gorm.DB) (*models.Category, error) {
	var category models.Category
	err := q.Preload("User").First(&category).Error
	switch {
	case err == nil:
		return &category, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrCategoryNotFound
	default:
		return nil, fmt.Errorf("get category: %w", err)
	}
}

func (s *CategoryService) Create(ctx context.Context, userID uint, name string) (*models.Category, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, name, 0); err != nil {
		return nil, err
	}

	category := models.Category{Name: name, UserID: userID}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

// Update renames a category. Only its creator may do so.
func (s *CategoryService) Update(ctx context.Context, userID, id uint, name string) (*models.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(category.UserID, userID); err != nil {
		return nil, err
	}
	if name, err = cleanName(name); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, name, category.ID); err != nil {
		return nil, err
	}

	category.Name = name
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// Delete removes a category and all of its items. Only its creator may do so.
func (s *CategoryService) Delete(ctx context.Context, userID, id uint) error {
	category, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwner(category.UserID, userID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", category.ID).Delete(&models.Item{}).Error; err != nil {
			return fmt.Errorf("delete category items: %w", err)
		}
		if err := tx.Delete(&models.Category{}, category.ID).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}

func (s *CategoryService) ensureUnique(ctx context.Context, name string, except uint) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Category{}).
		Where("name = ?", name).Scopes(Except(except)).Count(&count).Error
	if err != nil {
		return fmt.Errorf("check category name: %w", err)
	}
	if count > 0 {
		return ErrCategoryExists
	}
	return nil
}
