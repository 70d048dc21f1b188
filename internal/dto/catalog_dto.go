package dto

import "encoding/xml"

// ItemDocument is the export shape of one item.
type ItemDocument struct {
	XMLName     xml.Name `json:"-" xml:"Item"`
	ID          uint     `json:"id" xml:"id"`
	Creator     string   `json:"creator" xml:"creator"`
	Name        string   `json:"name" xml:"name"`
	Picture     string   `json:"picture" xml:"picture"`
	Description string   `json:"description" xml:"description"`
	CategoryID  uint     `json:"cat_id" xml:"cat_id"`
	DateCreated string   `json:"dateCreated" xml:"dateCreated"`
}

// ItemEnvelope wraps a single item: {"Item": {...}}.
type ItemEnvelope struct {
	Item ItemDocument `json:"Item"`
}

// CategoryDocument is the export shape of a category and its items.
type CategoryDocument struct {
	XMLName xml.Name       `json:"-" xml:"Category"`
	ID      uint           `json:"id" xml:"id"`
	Name    string         `json:"name" xml:"name"`
	Creator string         `json:"creator" xml:"creator"`
	Items   []ItemDocument `json:"Items" xml:"Items>Item"`
}

// Catalog is the full export: {"Catalog": [...]} or <Catalog><Category>...</Category></Catalog>.
type Catalog struct {
	XMLName    xml.Name           `json:"-" xml:"Catalog"`
	Categories []CategoryDocument `json:"Catalog" xml:"Category"`
}
