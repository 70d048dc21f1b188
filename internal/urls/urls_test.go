package urls

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordPaths(t *testing.T) {
	u := For("Item", 7)
	assert.Equal(t, "/catalog/item/7", u.View())
	assert.Equal(t, "/catalog/item/7/edit", u.Edit())
	assert.Equal(t, "/catalog/item/7/delete", u.Delete())
	assert.Equal(t, "/catalog/item/new", u.New())
	assert.Equal(t, "/catalog/item", u.List())
	assert.Equal(t, "Back to Items.", u.ListString())
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "Categories", Plural("category"))
	assert.Equal(t, "Categories", Plural("Category"))
	assert.Equal(t, "Users", Plural("user"))
	assert.Equal(t, "Items", Plural("item"))
	assert.Equal(t, "Back to Categories.", For("category", 0).ListString())
}

func TestDescriptiveItemPaths(t *testing.T) {
	assert.Equal(t, "/catalog/Hockey/Stick", Item("Hockey", "Stick"))
	assert.Equal(t, "/catalog/Rock%20Climbing/Chalk%20Bag", Item("Rock Climbing", "Chalk Bag"))
	assert.Equal(t, "/catalog/Hockey/Stick/edit", ItemEdit("Hockey", "Stick"))
	assert.Equal(t, "/catalog/Hockey/Stick/delete", ItemDelete("Hockey", "Stick"))
	assert.Equal(t, "/catalog/Soccer/items", CategoryItems("Soccer"))
	assert.Equal(t, "/catalog/a%2Fb/c", Item("a/b", "c"))
}
