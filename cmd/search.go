package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <prefix>",
	Short: "Search the local index by class or method name prefix",
	Example: `  javadocfetch search ArrayList
  javadocfetch search java.util.Map.put --limit 5`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 20, "maximum number of results")
}

func runSearch(cmd *cobra.Command, args []string) {
	database := openDB()
	defer database.Close()

	hits, err := database.Search(context.Background(), strings.Join(args, " "), searchLimit)
	if err != nil {
		slog.Error("search failed", "error", err)
		database.Close()
		os.Exit(1)
	}
	if len(hits) == 0 {
		fmt.Println("No results found.")
		return
	}

	for _, h := range hits {
		fmt.Printf("%-10s %5d  %s\n", h.Kind, h.Weight, h.ID)
		if h.Path != "" {
			fmt.Printf("                  %s\n", h.Path)
		}
	}
}
