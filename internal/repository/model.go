package repository

import (
	"encoding/json"
	"reflect"
)

// Entity is implemented by every collection record managed by the facade.
type Entity interface {
	GetID() string
	SetID(id string)
}

// Metadata holds versioning info of a snapshot document.
type Metadata struct {
	LastUpdate int64 `json:"lastUpdate"` // Unix timestamp in milliseconds
}

// DataDocument is the full dataset: used for the seed file, backups and the compiled-in defaults.
type DataDocument struct {
	Metadata   Metadata   `json:"metadata"`
	Products   []Product  `json:"products" validate:"dive"`
	Categories []Category `json:"categories" validate:"dive"`
	Blogs      []Blog     `json:"blogs" validate:"dive"`
	Settings   *Settings  `json:"settings,omitempty"`
}

// Product is a catalog item.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Code        string `json:"code" validate:"required"`
	Size        string `json:"size,omitempty"`
	Description string `json:"description"`
	Image       string `json:"image" validate:"omitempty,imageref"`
	Active      *bool  `json:"active,omitempty"`
	SortOrder   int    `json:"sortOrder"`
	Featured    bool   `json:"featured,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

func (p *Product) GetID() string   { return p.ID }
func (p *Product) SetID(id string) { p.ID = id }

// IsActive reports whether the product is visible; a missing flag counts as active.
func (p Product) IsActive() bool {
	return p.Active == nil || *p.Active
}

// Category groups products by name; Product.Category references Category.Name.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sortOrder"`
}

func (c *Category) GetID() string   { return c.ID }
func (c *Category) SetID(id string) { c.ID = id }

// Blog is a magazine post made of ordered sections.
type Blog struct {
	ID       string   `json:"id"`
	Title    string   `json:"title" validate:"required"`
	Date     string   `json:"date" validate:"required"`
	Author   string   `json:"author"`
	Image    string   `json:"image,omitempty" validate:"omitempty,imageref"`
	Sections Sections `json:"sections"`
}

func (b *Blog) GetID() string   { return b.ID }
func (b *Blog) SetID(id string) { b.ID = id }

// ApplyDefaults sets fallback values after decode.
func (d *DataDocument) ApplyDefaults() {
	if d.Products == nil {
		d.Products = []Product{}
	}
	if d.Categories == nil {
		d.Categories = []Category{}
	}
	if d.Blogs == nil {
		d.Blogs = []Blog{}
	}
	for pi := range d.Products {
		d.Products[pi].applyDefaults()
	}
	for bi := range d.Blogs {
		d.Blogs[bi].applyDefaults()
	}
}

func (p *Product) applyDefaults() {
	if p.Active == nil {
		v := true
		p.Active = &v
	}
}

func (b *Blog) applyDefaults() {
	if b.Sections == nil {
		b.Sections = Sections{}
	}
}

// AreDataDocumentsEqual compares two DataDocuments ignoring Metadata.
// Uses JSON serialization for flexible comparison (order-independent for object keys).
func AreDataDocumentsEqual(a, b *DataDocument) bool {
	if a == nil || b == nil {
		return a == b
	}

	aBytes, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bBytes, err := json.Marshal(b)
	if err != nil {
		return false
	}

	var aMap, bMap map[string]interface{}
	if err := json.Unmarshal(aBytes, &aMap); err != nil {
		return false
	}
	if err := json.Unmarshal(bBytes, &bMap); err != nil {
		return false
	}

	delete(aMap, "metadata")
	delete(bMap, "metadata")

	return reflect.DeepEqual(aMap, bMap)
}

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool {
	return &v
}
