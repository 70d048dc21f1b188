package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/models"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	users      *UserService
	categories *CategoryService
	items      *ItemService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	categories := NewCategoryService(db)
	return &fixture{
		db:         db,
		users:      NewUserService(db),
		categories: categories,
		items:      NewItemService(db, categories, nil),
	}
}

func (f *fixture) user(t *testing.T, name, email string) *models.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), Profile{Name: name, Email: email})
	require.NoError(t, err)
	return u
}

func (f *fixture) category(t *testing.T, owner *models.User, name string) *models.Category {
	t.Helper()
	c, err := f.categories.Create(context.Background(), owner.ID, name)
	require.NoError(t, err)
	return c
}

func (f *fixture) item(t *testing.T, owner *models.User, category, name string) *models.Item {
	t.Helper()
	it, err := f.items.Create(context.Background(), owner.ID, ItemInput{Name: name, Category: category})
	require.NoError(t, err)
	return it
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}
