package catalog

import (
	"sort"
	"strings"

	"github.com/bassista/go_storefront/internal/repository"
)

const (
	// PageCapacity is the number of product cells per page.
	PageCapacity = 6
	// Columns is the width of the product grid.
	Columns = 2
	// Uncategorized heads the pages of products without a category.
	Uncategorized = "Uncategorized"
)

// Page is one product page of a single category.
type Page struct {
	Category string
	// Index is the 1-based page number within the category.
	Index int
	Cells []Cell
}

// Cell places a product in the grid, row-major.
type Cell struct {
	Product repository.Product
	Row     int
	Col     int
}

// Paginate groups active products by category, orders categories alphabetically and
// keeps the original order inside each category. Inactive products are skipped and
// products without a category are grouped under Uncategorized.
func Paginate(products []repository.Product) []Page {
	groups := map[string][]repository.Product{}
	var names []string
	for _, p := range products {
		if !p.IsActive() {
			continue
		}
		name := strings.TrimSpace(p.Category)
		if name == "" {
			name = Uncategorized
		}
		if _, seen := groups[name]; !seen {
			names = append(names, name)
		}
		groups[name] = append(groups[name], p)
	}
	sort.Strings(names)

	var pages []Page
	for _, name := range names {
		items := groups[name]
		for start := 0; start < len(items); start += PageCapacity {
			end := min(start+PageCapacity, len(items))
			page := Page{Category: name, Index: start/PageCapacity + 1}
			for i, p := range items[start:end] {
				page.Cells = append(page.Cells, Cell{Product: p, Row: i / Columns, Col: i % Columns})
			}
			pages = append(pages, page)
		}
	}
	return pages
}
