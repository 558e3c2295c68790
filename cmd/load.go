package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/jcdickinson/javadocfetch/internal/db"
	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load an output document into the local index",
	Example: `  javadocfetch load javadoc.json
  javadocfetch load jdk8.json.zst --db ./jdk8.db`,
	Args: cobra.ExactArgs(1),
	Run:  runLoad,
}

func openDB() *db.DB {
	cfg := loadConfig()
	database, err := db.New(cfg.Index.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	return database
}

func runLoad(cmd *cobra.Command, args []string) {
	database := openDB()
	defer database.Close()

	ctx := context.Background()
	stats, err := database.LoadFile(ctx, args[0])
	if err != nil {
		database.Close()
		log.Fatalf("load failed: %v", err)
	}
	classes, methods, err := database.Count(ctx)
	if err != nil {
		database.Close()
		log.Fatalf("counting records: %v", err)
	}
	fmt.Printf("Loaded %d classes and %d methods (index now holds %d classes, %d methods)\n",
		stats.Classes, stats.Methods, classes, methods)
}
