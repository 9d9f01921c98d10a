package catalog

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/bassista/go_storefront/internal/logger"
	"github.com/bassista/go_storefront/internal/repository"
)

// Page geometry in millimetres (A4 portrait).
const (
	margin       = 10.0
	headerHeight = 20.0
	footerHeight = 14.0
	gridGap      = 6.0
	imageBoxW    = 60.0
	imageBoxH    = 40.0
	lineHeight   = 5.0
	fontFamily   = "Helvetica"
)

var (
	darkBand     = [3]int{34, 40, 49}
	lightText    = [3]int{255, 255, 255}
	bodyText     = [3]int{33, 33, 33}
	mutedText    = [3]int{110, 110, 110}
	placeholder  = [3]int{225, 225, 225}
	cardBorder   = [3]int{200, 200, 200}
	accentColour = [3]int{196, 138, 32}
)

// Input is everything needed to render a catalog.
type Input struct {
	Products      []repository.Product
	Settings      repository.Settings
	CoverImageURL string
}

// Document is a rendered catalog.
type Document struct {
	Filename  string
	Data      []byte
	PageCount int
	// MissingImages counts images drawn as placeholders.
	MissingImages int
}

// Exporter renders product catalogs as PDF.
type Exporter struct {
	images   ImageSource
	compress bool
}

func NewExporter(images ImageSource, compress bool) *Exporter {
	return &Exporter{images: images, compress: compress}
}

// Filename derives the artifact name from the brand name.
func Filename(brandName string) string {
	name := strings.TrimSpace(brandName)
	if name == "" {
		name = "Product"
	}
	return strings.ReplaceAll(name, " ", "_") + "_Catalog.pdf"
}

// Export renders the cover page followed by the paginated product pages.
// Image failures degrade to placeholders; only PDF serialization errors are returned.
func (e *Exporter) Export(ctx context.Context, in Input) (*Document, error) {
	pages := Paginate(in.Products)

	refs := []string{in.CoverImageURL}
	for _, page := range pages {
		for _, cell := range page.Cells {
			refs = append(refs, cell.Product.Image)
		}
	}
	images := map[string]*Image{}
	if e.images != nil {
		images = e.images.FetchAll(ctx, refs)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(e.compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetTitle(in.Settings.BrandName+" Catalog", true)
	pdf.SetAuthor(in.Settings.CompanyName, true)

	r := &renderer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), images: images, settings: in.Settings, embedded: map[string]string{}}
	r.cover(in.CoverImageURL)
	for _, page := range pages {
		r.productPage(page)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render catalog: %w", err)
	}

	logger.WithComponent("catalog").Infof("catalog rendered: %d pages, %d products, %d placeholders",
		pdf.PageCount(), len(refs)-1, r.missing)

	return &Document{
		Filename:      Filename(in.Settings.BrandName),
		Data:          buf.Bytes(),
		PageCount:     pdf.PageCount(),
		MissingImages: r.missing,
	}, nil
}

type renderer struct {
	pdf      *fpdf.Fpdf
	tr       func(string) string
	images   map[string]*Image
	settings repository.Settings
	missing  int
	imageSeq int
	embedded map[string]string
}

// cover draws the three bands: 15% header, 70% image, 15% footer.
func (r *renderer) cover(coverURL string) {
	pdf := r.pdf
	pdf.AddPage()
	w, h := pdf.GetPageSize()
	top := h * 0.15
	middle := h * 0.70
	bottom := h - top - middle

	r.fill(darkBand)
	pdf.Rect(0, 0, w, top, "F")
	r.text(lightText)
	pdf.SetFont(fontFamily, "B", 28)
	pdf.SetXY(margin, top*0.25)
	pdf.CellFormat(w-2*margin, 14, r.tr(r.settings.BrandName), "", 2, "C", false, 0, "")
	pdf.SetFont(fontFamily, "I", 12)
	pdf.CellFormat(w-2*margin, 8, r.tr(r.settings.Tagline), "", 0, "C", false, 0, "")

	if !r.drawImage(coverURL, 0, top, w, middle) {
		r.fill(placeholder)
		pdf.Rect(0, top, w, middle, "F")
	}

	r.fill(darkBand)
	pdf.Rect(0, top+middle, w, bottom, "F")
	r.text(lightText)
	pdf.SetFont(fontFamily, "B", 14)
	pdf.SetXY(margin, top+middle+bottom*0.15)
	pdf.CellFormat(w-2*margin, 8, r.tr(r.settings.CompanyName), "", 2, "C", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.CellFormat(w-2*margin, 6, r.tr(r.settings.ContactLine()), "", 2, "C", false, 0, "")
	pdf.CellFormat(w-2*margin, 6, r.tr(r.settings.Contact.Address), "", 0, "C", false, 0, "")
}

func (r *renderer) productPage(page Page) {
	pdf := r.pdf
	pdf.AddPage()
	w, h := pdf.GetPageSize()

	r.fill(darkBand)
	pdf.Rect(0, 0, w, headerHeight, "F")
	r.text(lightText)
	pdf.SetFont(fontFamily, "B", 16)
	pdf.SetXY(margin, 0)
	pdf.CellFormat(w-2*margin, headerHeight, r.tr(page.Category), "", 0, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.SetXY(margin, 0)
	pdf.CellFormat(w-2*margin, headerHeight, r.tr(r.settings.BrandName), "", 0, "R", false, 0, "")

	r.fill(darkBand)
	pdf.Rect(0, h-footerHeight, w, footerHeight, "F")
	r.text(lightText)
	pdf.SetFont(fontFamily, "", 9)
	pdf.SetXY(margin, h-footerHeight)
	pdf.CellFormat(w-2*margin, footerHeight, r.tr(r.settings.ContactLine()), "", 0, "C", false, 0, "")

	cellW := (w - 2*margin - gridGap*(Columns-1)) / Columns
	rows := PageCapacity / Columns
	gridTop := headerHeight + margin
	cellH := (h - headerHeight - footerHeight - 2*margin - gridGap*float64(rows-1)) / float64(rows)

	for _, cell := range page.Cells {
		x := margin + float64(cell.Col)*(cellW+gridGap)
		y := gridTop + float64(cell.Row)*(cellH+gridGap)
		r.productCell(cell.Product, x, y, cellW, cellH)
	}
}

func (r *renderer) productCell(p repository.Product, x, y, w, h float64) {
	pdf := r.pdf

	pdf.SetDrawColor(cardBorder[0], cardBorder[1], cardBorder[2])
	pdf.SetLineWidth(0.3)
	pdf.Rect(x, y, w, h, "D")

	boxX := x + (w-imageBoxW)/2
	boxY := y + 4
	if !r.fitImage(p.Image, boxX, boxY, imageBoxW, imageBoxH) {
		r.fill(placeholder)
		pdf.Rect(boxX, boxY, imageBoxW, imageBoxH, "F")
		r.text(mutedText)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetXY(boxX, boxY)
		pdf.CellFormat(imageBoxW, imageBoxH, "No image", "", 0, "CM", false, 0, "")
	}

	textY := boxY + imageBoxH + 3
	r.text(accentColour)
	pdf.SetFont(fontFamily, "B", 9)
	pdf.SetXY(x+4, textY)
	pdf.CellFormat(w-8, lineHeight, r.tr(p.Code), "", 0, "L", false, 0, "")

	r.text(bodyText)
	pdf.SetFont(fontFamily, "B", 11)
	lines := pdf.SplitLines([]byte(r.tr(p.Name)), w-8)
	nameY := textY + lineHeight + 1
	for i, line := range lines {
		pdf.SetXY(x+4, nameY+float64(i)*lineHeight)
		pdf.CellFormat(w-8, lineHeight, string(line), "", 0, "L", false, 0, "")
	}

	if p.Size != "" {
		r.text(mutedText)
		pdf.SetFont(fontFamily, "", 9)
		pdf.SetXY(x+4, nameY+float64(len(lines))*lineHeight+1)
		pdf.CellFormat(w-8, lineHeight, r.tr("Size: "+p.Size), "", 0, "L", false, 0, "")
	}
}

// drawImage stretches the image over the box. It reports false when the image is unavailable.
func (r *renderer) drawImage(ref string, x, y, w, h float64) bool {
	name, ok := r.register(ref)
	if !ok {
		return false
	}
	r.pdf.ImageOptions(name, x, y, w, h, false, fpdf.ImageOptions{ImageType: "JPG"}, 0, "")
	return true
}

// fitImage draws the image inside the box keeping its aspect ratio, centred.
func (r *renderer) fitImage(ref string, x, y, boxW, boxH float64) bool {
	img := r.images[ref]
	name, ok := r.register(ref)
	if !ok {
		return false
	}
	w, h := boxW, boxH
	if img.Width > 0 && img.Height > 0 {
		ratio := float64(img.Width) / float64(img.Height)
		if ratio > boxW/boxH {
			h = boxW / ratio
		} else {
			w = boxH * ratio
		}
	}
	r.pdf.ImageOptions(name, x+(boxW-w)/2, y+(boxH-h)/2, w, h, false, fpdf.ImageOptions{ImageType: "JPG"}, 0, "")
	return true
}

func (r *renderer) register(ref string) (string, bool) {
	img, ok := r.images[ref]
	if ref == "" || !ok || img == nil {
		r.missing++
		return "", false
	}
	if name, done := r.embedded[ref]; done {
		return name, true
	}
	r.imageSeq++
	name := fmt.Sprintf("img%d", r.imageSeq)
	info := r.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "JPG"}, bytes.NewReader(img.Data))
	if info == nil || r.pdf.Err() {
		logger.WithComponent("catalog").Warnf("cannot embed image %s: %v", ref, r.pdf.Error())
		r.pdf.ClearError()
		r.missing++
		return "", false
	}
	r.embedded[ref] = name
	return name, true
}

func (r *renderer) fill(c [3]int) { r.pdf.SetFillColor(c[0], c[1], c[2]) }
func (r *renderer) text(c [3]int) { r.pdf.SetTextColor(c[0], c[1], c[2]) }
