package services

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/dto"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/models"
	"gorm.io/gorm"
)

// CatalogService builds the read-only JSON/XML projections.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// Export returns every category, ordered by name, with its items ordered by id.
func (s *CatalogService) Export(ctx context.Context) (*dto.Catalog, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("items.id ASC") }).
		Preload("Items.User").
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("export catalog: %w", err)
	}

	out := &dto.Catalog{Categories: make([]dto.CategoryDocument, 0, len(categories))}
	for _, c := range categories {
		doc := dto.CategoryDocument{
			ID:      c.ID,
			Name:    c.Name,
			Creator: c.User.Name,
			Items:   make([]dto.ItemDocument, 0, len(c.Items)),
		}
		for i := range c.Items {
			doc.Items = append(doc.Items, ItemDocument(&c.Items[i]))
		}
		out.Categories = append(out.Categories, doc)
	}
	return out, nil
}

// ItemDocument maps an item with its User loaded.
func ItemDocument(item *models.Item) dto.ItemDocument {
	return dto.ItemDocument{
		ID:          item.ID,
		Creator:     item.User.Name,
		Name:        item.Name,
		Picture:     item.Picture,
		Description: item.Description,
		CategoryID:  item.CategoryID,
		DateCreated: item.DateCreated.Format(models.DateLayout),
	}
}
