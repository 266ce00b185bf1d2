package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/urfave/cli/v3"

	"github.com/bluebarrow/searchd/pkg/catalog"
	"github.com/bluebarrow/searchd/pkg/config"
	"github.com/bluebarrow/searchd/pkg/storage"
)

// LoadCommand creates the load command
func LoadCommand() *cli.Command {
	return &cli.Command{
		Name:      "load",
		Usage:     "Load a catalog document into the search database",
		ArgsUsage: "<catalog.json|catalog.json.zst>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one catalog file argument")
			}
			return loadCatalog(c.String("config"), c.Args().First())
		},
	}
}

func loadCatalog(configPath, catalogPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	doc, err := readCatalogFile(catalogPath)
	if err != nil {
		return err
	}

	store, err := storage.NewStoreWithMigrations(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening catalog database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Printf("Warning: failed to close store: %v\n", err)
		}
	}()

	if err := store.LoadCatalog(doc); err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	fmt.Printf("Loaded %d pages, %d categories, %d category items, %d products, %d variants, %d product items, %d variant items, %d redirects\n",
		len(doc.Pages), len(doc.Categories), len(doc.CategoryItems), len(doc.Products),
		len(doc.Variants), len(doc.ProductItems), len(doc.VariantItems), len(doc.Redirects))
	return nil
}

// readCatalogFile parses a catalog document, transparently decompressing
// zstd files by extension.
func readCatalogFile(path string) (*catalog.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close catalog file: %v\n", err)
		}
	}()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		defer dec.Close()
		reader = dec
	}

	var doc catalog.File
	if err := json.NewDecoder(reader).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing catalog document: %w", err)
	}
	return &doc, nil
}
