package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryNamesAreUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	amy := f.user(t, "Amy", "amy@example.com")
	kim := f.user(t, "Kim", "kim@example.com")

	f.category(t, amy, "Hockey")
	_, err := f.categories.Create(ctx, kim.ID, "Hockey")
	assert.ErrorIs(t, err, ErrCategoryExists)

	_, err = f.categories.Create(ctx, kim.ID, "  Hockey  ")
	assert.ErrorIs(t, err, ErrCategoryExists)

	assert.EqualValues(t, 1, f.count(t, &models.Category{}))
}

func TestCategoryNameValidation(t *testing.T) {
	f := newFixture(t)
	amy := f.user(t, "Amy", "amy@example.com")

	_, err := f.categories.Create(context.Background(), amy.ID, "   ")
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = f.categories.Create(context.Background(), amy.ID, "Ice/Hockey")
	assert.ErrorIs(t, err, ErrNameInvalid)
}

func TestCategoryListAndNamesAreSorted(t *testing.T) {
	f := newFixture(t)
	amy := f.user(t, "Amy", "amy@example.com")
	for _, name := range []string{"Soccer", "Baseball", "Hockey"} {
		f.category(t, amy, name)
	}

	names, err := f.categories.Names(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Baseball", "Hockey", "Soccer"}, names)

	list, err := f.categories.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Baseball", list[0].Name)
	assert.Equal(t, "Amy", list[0].User.Name)
}

func TestCategoryUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	amy := f.user(t, "Amy", "amy@example.com")
	kim := f.user(t, "Kim", "kim@example.com")
	hockey := f.category(t, amy, "Hockey")
	f.category(t, amy, "Soccer")

	_, err := f.categories.Update(ctx, kim.ID, hockey.ID, "Ice Hockey")
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = f.categories.Update(ctx, amy.ID, hockey.ID, "Soccer")
	assert.ErrorIs(t, err, ErrCategoryExists)

	same, err := f.categories.Update(ctx, amy.ID, hockey.ID, "Hockey")
	require.NoError(t, err)
	assert.Equal(t, "Hockey", same.Name)

	renamed, err := f.categories.Update(ctx, amy.ID, hockey.ID, "Ice Hockey")
	require.NoError(t, err)
	assert.Equal(t, "Ice Hockey", renamed.Name)

	_, err = f.categories.Update(ctx, amy.ID, 999, "x")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryDeleteRemovesItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	amy := f.user(t, "Amy", "amy@example.com")
	kim := f.user(t, "Kim", "kim@example.com")
	hockey := f.category(t, amy, "Hockey")
	f.category(t, amy, "Soccer")
	f.item(t, amy, "Hockey", "Stick")
	f.item(t, kim, "Hockey", "Puck")
	f.item(t, amy, "Soccer", "Cleats")

	assert.ErrorIs(t, f.categories.Delete(ctx, kim.ID, hockey.ID), ErrNotOwner)
	assert.EqualValues(t, 3, f.count(t, &models.Item{}))

	require.NoError(t, f.categories.Delete(ctx, amy.ID, hockey.ID))
	_, err := f.categories.Get(ctx, hockey.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	items, err := f.items.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Cleats", items[0].Name)
}

func TestAnonymousActorIsNeverOwner(t *testing.T) {
	assert.ErrorIs(t, checkOwner(0, 0), ErrNotOwner)
	assert.ErrorIs(t, checkOwner(1, 2), ErrNotOwner)
	assert.NoError(t, checkOwner(3, 3))
}
