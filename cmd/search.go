package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bluebarrow/searchd/pkg/catalog"
	"github.com/bluebarrow/searchd/pkg/config"
	"github.com/bluebarrow/searchd/pkg/search"
	"github.com/bluebarrow/searchd/pkg/storage"
)

// Define styles using lipgloss
var (
	searchTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("86")).
				Background(lipgloss.Color("235")).
				Padding(0, 1).
				Margin(0, 0, 1, 0)

	entityStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("32"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	noResultsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the catalog from the command line",
		ArgsUsage: "<term>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results",
			},
			&cli.BoolFlag{
				Name:  "legacy",
				Usage: "Use the legacy page/product pipeline instead of the unified merge",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print raw JSON candidates",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() == 0 {
				return fmt.Errorf("search term is required")
			}
			term := strings.Join(c.Args().Slice(), " ")
			return searchCatalog(ctx, c.String("config"), term, c.Int("limit"), c.Bool("legacy"), c.Bool("json"))
		},
	}
}

func searchCatalog(ctx context.Context, configPath, term string, limit int, legacy, rawJSON bool) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
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

	service := search.NewService(store, searchOptions(cfg))

	// CLI searches stay out of the analytics log.
	query := search.Query{Term: term, Limit: limit}
	var results []catalog.Candidate
	if legacy {
		results, err = service.LegacySearch(ctx, query)
	} else {
		results, err = service.Search(ctx, query)
	}
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if rawJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	fmt.Println(searchTitleStyle.Render(fmt.Sprintf("Search results for %q", term)))
	if len(results) == 0 {
		fmt.Println(noResultsStyle.Render("No results found"))
		return nil
	}

	titleCaser := cases.Title(language.English)
	for i, c := range results {
		entity := entityStyle.Render(titleCaser.String(string(c.EntityType)))
		score := scoreStyle.Render(fmt.Sprintf("%.3f", c.Score))
		fmt.Printf("%2d. [%s] %s (%s)\n", i+1, entity, c.Title, score)
		detail := c.Key
		if c.SKU != "" {
			detail += "  sku=" + c.SKU
		}
		if c.Color != "" {
			detail += "  color=" + c.Color
		}
		fmt.Printf("    %s\n", keyStyle.Render(detail))
	}
	fmt.Printf("\nTotal: %d results\n", len(results))
	return nil
}
