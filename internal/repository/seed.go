package repository

import (
	"encoding/json"
	"sync"
)

// Defaults serves the fallback dataset of the read path. It starts with the
// compiled-in document and is replaced when a seed file is loaded.
type Defaults struct {
	mu  sync.RWMutex
	doc DataDocument
}

func NewDefaults() *Defaults {
	return &Defaults{doc: DefaultDocument()}
}

// Document returns a deep copy of the current fallback dataset.
func (d *Defaults) Document() DataDocument {
	d.mu.RLock()
	defer d.mu.RUnlock()
	cloned, err := d.doc.Clone()
	if err != nil {
		return DefaultDocument()
	}
	return cloned
}

// Replace swaps the dataset. Sections missing from doc fall back to the compiled-in ones.
func (d *Defaults) Replace(doc DataDocument) {
	builtin := DefaultDocument()
	if len(doc.Products) == 0 {
		doc.Products = builtin.Products
	}
	if len(doc.Categories) == 0 {
		doc.Categories = builtin.Categories
	}
	if len(doc.Blogs) == 0 {
		doc.Blogs = builtin.Blogs
	}
	if doc.Settings == nil {
		doc.Settings = builtin.Settings
	}
	doc.ApplyDefaults()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.doc = doc
}

// Clone deep-copies the document to avoid shared slices between holders and callers.
func (d DataDocument) Clone() (DataDocument, error) {
	bytes, err := json.Marshal(d)
	if err != nil {
		return DataDocument{}, err
	}
	var copy DataDocument
	if err := json.Unmarshal(bytes, &copy); err != nil {
		return DataDocument{}, err
	}
	return copy, nil
}
