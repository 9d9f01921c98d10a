package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bassista/go_storefront/internal/logger"
)

const maxImageBytes = 10 << 20

// Image is a fetched picture re-encoded as JPEG.
type Image struct {
	Data   []byte
	Width  int
	Height int
}

// ImageSource resolves image references. Missing keys in the result mean "no image".
type ImageSource interface {
	FetchAll(ctx context.Context, refs []string) map[string]*Image
}

type FetcherOptions struct {
	// BaseURL resolves root-relative references over HTTP when set.
	BaseURL string
	// AssetDir resolves root-relative references from disk when BaseURL is empty.
	AssetDir string
	Quality  int
	Workers  int
	Timeout  time.Duration
}

// Fetcher downloads images concurrently and normalizes them to JPEG.
type Fetcher struct {
	opts   FetcherOptions
	client *http.Client
}

func NewFetcher(opts FetcherOptions) *Fetcher {
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = 80
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 8 * time.Second
	}
	return &Fetcher{opts: opts, client: &http.Client{Timeout: opts.Timeout}}
}

// FetchAll fetches every distinct non-empty reference. Failures are logged and left out.
func (f *Fetcher) FetchAll(ctx context.Context, refs []string) map[string]*Image {
	var (
		mu  sync.Mutex
		out = map[string]*Image{}
		g   errgroup.Group
	)
	g.SetLimit(f.opts.Workers)

	seen := map[string]bool{}
	for _, ref := range refs {
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		g.Go(func() error {
			img, err := f.Fetch(ctx, ref)
			if err != nil {
				logger.WithComponent("catalog").Warnf("image %s unavailable, using placeholder: %v", ref, err)
				return nil
			}
			mu.Lock()
			out[ref] = img
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Fetch loads one reference and re-encodes it.
func (f *Fetcher) Fetch(ctx context.Context, ref string) (*Image, error) {
	raw, err := f.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	return reencode(raw, f.opts.Quality)
}

func (f *Fetcher) load(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return f.download(ctx, ref)
	case strings.HasPrefix(ref, "/") && f.opts.BaseURL != "":
		return f.download(ctx, strings.TrimRight(f.opts.BaseURL, "/")+ref)
	case strings.HasPrefix(ref, "/") && f.opts.AssetDir != "":
		return f.readAsset(ref)
	default:
		return nil, fmt.Errorf("unsupported image reference %q", ref)
	}
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
}

func (f *Fetcher) readAsset(ref string) ([]byte, error) {
	root, err := filepath.Abs(f.opts.AssetDir)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(root, filepath.FromSlash(ref))
	if !strings.HasPrefix(path, root+string(filepath.Separator)) {
		return nil, errors.New("asset path escapes asset directory")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, maxImageBytes))
}

// reencode decodes any supported raster and writes it as JPEG, flattening transparency onto white.
func reencode(raw []byte, quality int) (*Image, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	bounds := src.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, errors.New("empty image")
	}
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), src, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return &Image{Data: buf.Bytes(), Width: bounds.Dx(), Height: bounds.Dy()}, nil
}
