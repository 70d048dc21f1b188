package services

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportMatchesStoredRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	amy := f.user(t, "Amy", "amy@example.com")
	kim := f.user(t, "Kim", "kim@example.com")
	hockey := f.category(t, amy, "Hockey")
	f.category(t, kim, "Baseball")
	stick, err := f.items.Create(ctx, kim.ID, ItemInput{
		Name: "Stick", Category: "Hockey", Description: "Shoots pucks.",
		Picture: "images/stick.png", DateCreated: date("2015-06-01"),
	})
	require.NoError(t, err)
	f.item(t, amy, "Hockey", "Puck")

	doc, err := NewCatalogService(f.db).Export(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Categories, 2)

	assert.Equal(t, "Baseball", doc.Categories[0].Name)
	assert.Empty(t, doc.Categories[0].Items)

	got := doc.Categories[1]
	assert.Equal(t, hockey.ID, got.ID)
	assert.Equal(t, "Hockey", got.Name)
	assert.Equal(t, "Amy", got.Creator)
	require.Len(t, got.Items, 2)

	first := got.Items[0]
	assert.Equal(t, stick.ID, first.ID)
	assert.Equal(t, "Stick", first.Name)
	assert.Equal(t, "Kim", first.Creator)
	assert.Equal(t, "Shoots pucks.", first.Description)
	assert.Equal(t, "images/stick.png", first.Picture)
	assert.Equal(t, hockey.ID, first.CategoryID)
	assert.Equal(t, "2015-06-01", first.DateCreated)
	assert.Equal(t, "Puck", got.Items[1].Name)
}

func TestExportEncodings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	amy := f.user(t, "Amy", "amy@example.com")
	f.category(t, amy, "Hockey")
	_, err := f.items.Create(ctx, amy.ID, ItemInput{Name: "Stick", Category: "Hockey", DateCreated: date("2015-06-01")})
	require.NoError(t, err)

	doc, err := NewCatalogService(f.db).Export(ctx)
	require.NoError(t, err)

	b, err := json.Marshal(doc)
	require.NoError(t, err)
	var decoded map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Len(t, decoded["Catalog"], 1)
	category := decoded["Catalog"][0]
	assert.Equal(t, "Hockey", category["name"])
	assert.Equal(t, "Amy", category["creator"])
	items := category["Items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "Stick", item["name"])
	assert.Equal(t, "2015-06-01", item["dateCreated"])
	assert.EqualValues(t, 1, item["cat_id"])

	x, err := xml.Marshal(doc)
	require.NoError(t, err)
	out := string(x)
	assert.Contains(t, out, "<Catalog><Category><id>1</id><name>Hockey</name><creator>Amy</creator><Items><Item><id>1</id>")
	assert.Contains(t, out, "<dateCreated>2015-06-01</dateCreated></Item></Items></Category></Catalog>")
}

func TestItemDocumentXML(t *testing.T) {
	f := newFixture(t)
	amy := f.user(t, "Amy", "amy@example.com")
	f.category(t, amy, "Hockey")
	it := f.item(t, amy, "Hockey", "Stick & Puck")

	x, err := xml.Marshal(ItemDocument(it))
	require.NoError(t, err)
	assert.Contains(t, string(x), "<Item><id>1</id><creator>Amy</creator><name>Stick &amp; Puck</name>")
}
