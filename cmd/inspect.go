package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jcdickinson/javadocfetch/internal/docs"
	"github.com/jcdickinson/javadocfetch/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var inspectRoot string

var inspectCmd = &cobra.Command{
	Use:   "inspect <page>",
	Short: "Print the records extracted from one page",
	Example: `  javadocfetch inspect docs/api/java/util/ArrayList.html --root docs/api
  javadocfetch inspect Foo.html --naming subtitle`,
	Args: cobra.ExactArgs(1),
	Run:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectRoot, "root", "", "documentation root the page path is relative to (default: the page's directory)")
	inspectCmd.Flags().String("naming", "path", "qualified-name strategy: path or subtitle")
	inspectCmd.Flags().String("policy", "full", "output schema policy: full or compact")
}

func runInspect(cmd *cobra.Command, args []string) {
	viper.BindPFlag("extract.naming", cmd.Flags().Lookup("naming"))
	viper.BindPFlag("extract.policy", cmd.Flags().Lookup("policy"))
	cfg := loadConfig()

	pagePath := args[0]
	root := inspectRoot
	if root == "" {
		root = filepath.Dir(pagePath)
	}
	rel, err := filepath.Rel(root, pagePath)
	if err != nil {
		log.Fatalf("page is not under root: %v", err)
	}
	rel = filepath.ToSlash(rel)

	data, err := os.ReadFile(pagePath)
	if err != nil {
		log.Fatalf("reading page: %v", err)
	}
	page, err := docs.LoadPage(bytes.NewReader(data), rel)
	if err != nil {
		log.Fatalf("parsing page: %v", err)
	}
	id, err := cfg.Naming().Identify(rel, page)
	if err != nil {
		log.Fatalf("naming page: %v", err)
	}

	p := pipeline.New(docs.NewExtractor(cfg.Policy()), pipeline.Options{Naming: cfg.Naming()})
	records, err := p.Extract(page, id)
	if err != nil {
		log.Fatalf("extracting %s: %v", rel, err)
	}
	for _, rec := range records {
		var buf bytes.Buffer
		if err := json.Indent(&buf, rec, "", "  "); err != nil {
			log.Fatalf("formatting record: %v", err)
		}
		fmt.Println(buf.String())
	}
}
