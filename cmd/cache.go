package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Remove cached extraction results",
	Run:   runClearCache,
}

func runClearCache(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	dir := cfg.Cache.Dir
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		fmt.Println("cache is empty")
		return
	}

	if err := os.RemoveAll(dir); err != nil {
		slog.Error("failed to clear cache", "dir", dir, "error", err)
		os.Exit(1)
	}
	fmt.Printf("removed %s\n", dir)
}
