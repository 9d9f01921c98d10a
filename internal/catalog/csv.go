package catalog

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cast"

	"github.com/bassista/go_storefront/internal/repository"
)

// ProductRow is the spreadsheet shape of a product.
type ProductRow struct {
	ID          string `csv:"id"`
	Code        string `csv:"code"`
	Name        string `csv:"name"`
	Category    string `csv:"category"`
	Size        string `csv:"size"`
	Description string `csv:"description"`
	Image       string `csv:"image"`
	Active      string `csv:"active"`
	SortOrder   string `csv:"sort_order"`
	Featured    string `csv:"featured"`
}

// ExportCSV writes products as CSV with a header row.
func ExportCSV(w io.Writer, products []repository.Product) error {
	rows := make([]*ProductRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, &ProductRow{
			ID:          p.ID,
			Code:        p.Code,
			Name:        p.Name,
			Category:    p.Category,
			Size:        p.Size,
			Description: p.Description,
			Image:       p.Image,
			Active:      cast.ToString(p.IsActive()),
			SortOrder:   cast.ToString(p.SortOrder),
			Featured:    cast.ToString(p.Featured),
		})
	}
	return gocsv.Marshal(rows, w)
}

// ImportCSV parses products from CSV. Blank active and sort_order cells stay unset, so
// saving keeps the stored values of existing products and defaults new ones.
func ImportCSV(r io.Reader) ([]repository.Product, error) {
	var rows []*ProductRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	products := make([]repository.Product, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		p := repository.Product{
			ID:          strings.TrimSpace(row.ID),
			Code:        strings.TrimSpace(row.Code),
			Name:        strings.TrimSpace(row.Name),
			Category:    strings.TrimSpace(row.Category),
			Size:        strings.TrimSpace(row.Size),
			Description: strings.TrimSpace(row.Description),
			Image:       strings.TrimSpace(row.Image),
		}
		if v := strings.TrimSpace(row.Active); v != "" {
			active, err := cast.ToBoolE(v)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid active value %q", line, v)
			}
			p.Active = repository.BoolPtr(active)
		}
		if v := strings.TrimSpace(row.SortOrder); v != "" {
			// decimal only: spreadsheets pad with zeros ("08")
			order, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid sort_order value %q", line, v)
			}
			p.SortOrder = order
		}
		if v := strings.TrimSpace(row.Featured); v != "" {
			featured, err := cast.ToBoolE(v)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid featured value %q", line, v)
			}
			p.Featured = featured
		}
		products = append(products, p)
	}
	return products, nil
}
