// Package gallery imports image files into the wedding gallery.
package gallery

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nhle/sarnrak/internal/ai"
	"github.com/nhle/sarnrak/internal/model"
	"github.com/nhle/sarnrak/internal/planner"
	"github.com/nhle/sarnrak/internal/wedding"
)

const defaultWorkers = 4

// Result reports the outcome of importing one file.
type Result struct {
	Path  string
	Image model.GalleryImage
	Err   error
}

// Importer reads image files concurrently and appends each one to the
// gallery as soon as it is ready.
type Importer struct {
	store   *wedding.Store
	workers int
	logger  zerolog.Logger
}

// NewImporter creates an importer that reads up to workers files at once.
func NewImporter(store *wedding.Store, workers int, logger zerolog.Logger) *Importer {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Importer{
		store:   store,
		workers: workers,
		logger:  logger.With().Str("component", "gallery").Logger(),
	}
}

// Import adds every file in paths as an Engagement image. Each file succeeds
// or fails on its own; results follow the order of paths while the gallery
// receives images in completion order. Cancelling ctx stops files that have
// not started yet.
func (im *Importer) Import(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.workers)
	for i, path := range paths {
		results[i].Path = path
		g.Go(func() error {
			img, err := im.importOne(gctx, path)
			results[i].Image = img
			results[i].Err = err
			if err != nil {
				im.logger.Warn().Err(err).Str("path", path).Msg("image import failed")
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (im *Importer) importOne(ctx context.Context, path string) (model.GalleryImage, error) {
	if err := ctx.Err(); err != nil {
		return model.GalleryImage{}, err
	}

	url, err := readDataURI(path)
	if err != nil {
		return model.GalleryImage{}, err
	}

	var img model.GalleryImage
	im.store.Modify(ctx, func(rec model.WeddingRecord) wedding.Patch {
		var p wedding.Patch
		p, img = planner.AddGalleryImage(rec, url, model.ImageEngagement, "")
		return p
	})
	im.logger.Debug().Str("path", path).Str("id", img.ID).Msg("image imported")
	return img, nil
}

// readDataURI reads an image file and encodes it as a data URI. The MIME
// type comes from the file content, falling back to the extension.
func readDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("reading %s: file is empty", path)
	}
	return ai.DataURI(detectMIME(path, data), data), nil
}

func detectMIME(path string, data []byte) string {
	mime := http.DetectContentType(data)
	if strings.HasPrefix(mime, "image/") {
		return mime
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".heic":
		return "image/heic"
	}
	return mime
}

// SaveInspiration appends url to the gallery as an Inspiration image.
func SaveInspiration(ctx context.Context, store *wedding.Store, url, caption string) model.GalleryImage {
	var img model.GalleryImage
	store.Modify(ctx, func(rec model.WeddingRecord) wedding.Patch {
		var p wedding.Patch
		p, img = planner.AddGalleryImage(rec, url, model.ImageInspiration, caption)
		return p
	})
	return img
}

