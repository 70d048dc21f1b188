// Package urls builds the CRUD paths of catalog records.
package urls

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/trait"
)

const Root = "/catalog"

// Urls holds the paths for one record kind ("user", "category", "item") and,
// optionally, one record key.
type Urls struct {
	Suffix string
	Key    uint
}

func For(suffix string, key uint) Urls {
	return Urls{Suffix: strings.ToLower(suffix), Key: key}
}

func (u Urls) View() string   { return fmt.Sprintf("%s/%s/%d", Root, u.Suffix, u.Key) }
func (u Urls) Edit() string   { return u.View() + "/edit" }
func (u Urls) Delete() string { return u.View() + "/delete" }
func (u Urls) New() string    { return fmt.Sprintf("%s/%s/new", Root, u.Suffix) }
func (u Urls) List() string   { return fmt.Sprintf("%s/%s", Root, u.Suffix) }

// ListString labels the link back to the list view: "Back to Items.".
func (u Urls) ListString() string {
	return "Back to " + Plural(u.Suffix) + "."
}

// Plural renders the list heading for a record kind.
func Plural(singular string) string {
	if strings.EqualFold(singular, "category") {
		return "Categories"
	}
	return trait.Title(strings.ToLower(singular)) + "s"
}

// Item is the descriptive path /catalog/<category>/<item>.
func Item(category, item string) string {
	return Root + "/" + url.PathEscape(category) + "/" + url.PathEscape(item)
}

func ItemEdit(category, item string) string   { return Item(category, item) + "/edit" }
func ItemDelete(category, item string) string { return Item(category, item) + "/delete" }

// CategoryItems lists the items of one category.
func CategoryItems(category string) string {
	return Root + "/" + url.PathEscape(category) + "/items"
}
