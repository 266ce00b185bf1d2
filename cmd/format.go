package cmd

import (
	"fmt"
	"sort"
)

// formatNumber formats a number with K/M suffixes for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	} else {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}

// formatStats formats catalog statistics for display
func formatStats(stats map[string]interface{}) {
	fmt.Printf("📊 Catalog Statistics\n")
	fmt.Printf("═══════════════════════\n\n")

	names := make([]string, 0, len(stats))
	for name := range stats {
		if _, ok := stats[name].(int); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("%-15s %s\n", name+":", formatNumber(stats[name].(int)))
	}

	if last, ok := stats["last_search"].(string); ok {
		fmt.Printf("\nLast search: %s\n", last)
	}
}
