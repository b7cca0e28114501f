package urlgen

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"skysplit/internal/fetch"
	"skysplit/internal/logging"
	"skysplit/internal/services"
)

// filesEndpoint is the per-simulation index of HSC image file groups.
const filesEndpoint = "files/skirt_images_hsc"

// Options selects which simulation and snapshot to enumerate.
type Options struct {
	// BaseURL is the API root, e.g. https://www.tng-project.org/api.
	BaseURL string
	// Simulation is the API simulation name, e.g. TNG50-1.
	Simulation string
	// Snapshot restricts results to one snapshot's realistic images.
	Snapshot int
}

// Generator enumerates downloadable FITS URLs from the files index.
type Generator struct {
	client *fetch.Client
	logger *slog.Logger
}

func New(client *fetch.Client, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Generator{client: client, logger: logger}
}

// Generate fetches the files index, keeps entries for the requested snapshot's
// realistic image set, and expands each entry's files array into a flat,
// ordered URL list.
func (g *Generator) Generate(ctx context.Context, opts Options) ([]string, error) {
	if strings.TrimSpace(opts.Simulation) == "" {
		return nil, services.Wrap(services.ErrValidation, "urlgen", "generate", "simulation name is required", nil)
	}
	if opts.Snapshot <= 0 {
		return nil, services.Wrap(services.ErrValidation, "urlgen", "generate", "snapshot must be positive", nil)
	}

	indexURL := fmt.Sprintf("%s/%s/%s/", strings.TrimRight(opts.BaseURL, "/"), opts.Simulation, filesEndpoint)

	var index []string
	if err := g.client.GetJSON(ctx, indexURL, &index); err != nil {
		return nil, fmt.Errorf("fetch files index: %w", err)
	}

	marker := fmt.Sprintf("_realistic_v2_%d", opts.Snapshot)
	var groups []string
	for _, entry := range index {
		if strings.Contains(entry, marker) {
			groups = append(groups, entry)
		}
	}
	g.logger.Info("files index fetched",
		logging.Int("entries", len(index)),
		logging.Int("matching", len(groups)),
		logging.String("snapshot_tag", marker))

	var urls []string
	for _, groupURL := range groups {
		var group struct {
			Files []string `json:"files"`
		}
		if err := g.client.GetJSON(ctx, groupURL, &group); err != nil {
			return nil, fmt.Errorf("expand file group %s: %w", groupURL, err)
		}
		urls = append(urls, group.Files...)
	}

	g.logger.Info("url list generated", logging.Int("urls", len(urls)))
	return urls, nil
}

// WriteList writes one URL per line, overwriting any existing file.
func WriteList(path string, urls []string) error {
	var sb strings.Builder
	for _, url := range urls {
		sb.WriteString(url)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write url list: %w", err)
	}
	return nil
}
