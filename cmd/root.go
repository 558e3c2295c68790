package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jcdickinson/javadocfetch/internal/cas"
	"github.com/jcdickinson/javadocfetch/internal/config"
	"github.com/jcdickinson/javadocfetch/internal/docs"
	"github.com/jcdickinson/javadocfetch/internal/emit"
	"github.com/jcdickinson/javadocfetch/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0"

var debug bool

var rootCmd = &cobra.Command{
	Use:   "javadocfetch <inputDir> [outputFile]",
	Short: "Convert javadoc HTML into a search-index bulk-load feed",
	Long: `Walks a javadoc output directory, extracts one record per class,
interface, enum and annotation plus one per method, and writes them as the
"updates" array of a bulk-load document. The output file defaults to
javadoc.json; a .zst or .gz suffix selects compression.`,
	Example: `  javadocfetch ./docs/api
  javadocfetch ./docs/api jdk8.json.zst --workers 8
  javadocfetch ./docs/api out.json --naming subtitle --policy compact`,
	Version:          version,
	Args:             cobra.RangeArgs(1, 2),
	PersistentPreRun: setupLogging,
	Run:              runExtract,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log per-page and per-member diagnostics")
	rootCmd.PersistentFlags().String("db", "", "index database path")
	viper.BindPFlag("index.db_path", rootCmd.PersistentFlags().Lookup("db"))

	flags := rootCmd.Flags()
	flags.String("naming", "path", "qualified-name strategy: path or subtitle")
	flags.String("policy", "full", "output schema policy: full or compact")
	flags.Int("workers", 1, "pages extracted concurrently")
	flags.String("compress", "", "output compression: none, zstd or gzip (default: from file name)")
	flags.Bool("cache", false, "reuse cached extraction results")
	viper.BindPFlag("extract.naming", flags.Lookup("naming"))
	viper.BindPFlag("extract.policy", flags.Lookup("policy"))
	viper.BindPFlag("extract.workers", flags.Lookup("workers"))
	viper.BindPFlag("output.compress", flags.Lookup("compress"))
	viper.BindPFlag("cache.enabled", flags.Lookup("cache"))

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(clearCacheCmd)
}

func setupLogging(cmd *cobra.Command, args []string) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func runExtract(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	out := cfg.Output.Path
	if len(args) > 1 {
		out = args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := extract(ctx, cfg, args[0], out); err != nil {
		log.Fatalf("extraction failed: %v", err)
	}
}

// extract runs the pipeline into out. The writer is closed on every path,
// so even an interrupted run leaves a well-formed document.
func extract(ctx context.Context, cfg *config.Config, in, out string) (sum pipeline.Summary, err error) {
	var mapping []byte
	if cfg.Output.MappingFile != "" {
		if mapping, err = emit.LoadMapping(cfg.Output.MappingFile); err != nil {
			return sum, err
		}
	}

	w, err := emit.Create(out, emit.Options{Mapping: mapping, Compression: cfg.Compression()})
	if err != nil {
		return sum, err
	}
	defer func() {
		err = errors.Join(err, w.Close())
	}()

	opts := pipeline.Options{
		Ext:     cfg.Extract.Ext,
		Naming:  cfg.Naming(),
		Workers: cfg.Extract.Workers,
	}
	if cfg.Cache.Enabled {
		opts.Cache = cas.New(cfg.Cache.Dir)
		slog.Debug("extraction cache enabled", "dir", cfg.Cache.Dir)
	}

	sum, err = pipeline.New(docs.NewExtractor(cfg.Policy()), opts).Run(ctx, in, w)
	if err != nil {
		return sum, fmt.Errorf("%s: %w", in, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %d records from %d pages to %s (%d skipped)\n", sum.Records, sum.Pages, out, sum.Skipped)
	return sum, nil
}
