package split

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"skysplit/internal/fits"
	"skysplit/internal/identity"
	"skysplit/internal/logging"
	"skysplit/internal/services"
)

// extensionPrefix tags the image HDUs that carry realistic HSC filter data.
const extensionPrefix = "SUBARU_HSC."

// Product describes one per-filter file produced from a parent image.
type Product struct {
	Filter   string
	Filename string
	Path     string
}

// Splitter breaks multi-extension parent files into per-filter single images.
type Splitter struct {
	codec  fits.Codec
	logger *slog.Logger
}

// New constructs a Splitter. A nil codec selects the production FITS codec;
// a nil logger disables logging.
func New(codec fits.Codec, logger *slog.Logger) *Splitter {
	if codec == nil {
		codec = fits.NewFileCodec()
	}
	return &Splitter{
		codec:  codec,
		logger: logging.NewComponentLogger(logger, "splitter"),
	}
}

// Split reads the parent file and writes one single-image FITS file per
// distinct filter extension into outDir. Products are returned in extension
// order; re-running overwrites previous outputs. A parent without any
// filter-tagged extension is an error, as is an unreadable parent.
func (s *Splitter) Split(parentPath, outDir string, id identity.Identity) ([]Product, error) {
	extensions, err := s.codec.Extensions(parentPath)
	if err != nil {
		return nil, services.Wrap(services.ErrSplit, "split", "scan", "open parent file", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrSplit, "split", "prepare", "create output directory", err)
	}

	products := make([]Product, 0, 5)
	seen := make(map[string]struct{}, 5)
	for _, ext := range extensions {
		filter, ok := filterFromName(ext.Name)
		if !ok {
			continue
		}
		if _, dup := seen[filter]; dup {
			s.logger.Debug("skipping duplicate filter extension",
				logging.String("filter", filter),
				logging.Int("hdu", ext.Index))
			continue
		}

		img, err := s.codec.ReadImage(parentPath, ext.Index)
		if err != nil {
			return nil, services.Wrap(services.ErrSplit, "split", "read",
				fmt.Sprintf("extension %d (%s)", ext.Index, ext.Name), err)
		}

		filename := identity.SplitName(id, filter)
		outPath := filepath.Join(outDir, filename)
		if err := s.codec.WriteImage(outPath, img); err != nil {
			return nil, services.Wrap(services.ErrSplit, "split", "write", filename, err)
		}

		seen[filter] = struct{}{}
		products = append(products, Product{Filter: filter, Filename: filename, Path: outPath})
		s.logger.Debug("wrote split image",
			logging.String("filter", filter),
			logging.String("file", filename))
	}

	if len(products) == 0 {
		return nil, services.Wrap(services.ErrSplit, "split", "scan",
			fmt.Sprintf("no %s* extensions in parent", extensionPrefix), nil)
	}
	return products, nil
}

// filterFromName extracts the filter letter from an EXTNAME such as
// "SUBARU_HSC.G".
func filterFromName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if !strings.HasPrefix(name, extensionPrefix) {
		return "", false
	}
	filter := strings.TrimPrefix(name, extensionPrefix)
	if filter == "" {
		return "", false
	}
	return filter, true
}
