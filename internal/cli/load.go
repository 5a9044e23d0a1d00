package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wikicurator/artbot/internal/model"
	"github.com/wikicurator/artbot/internal/pipeline"
)

var (
	loadCount          int
	loadFilter         string
	loadFilterCategory string
	loadInstance       string
	loadLocale         string
	loadListsDir       string
	loadRulesFile      string
	loadCategoriesFile string
	loadOutputDir      string
	loadOutputFormat   string
	loadTrial          bool
	loadUpdate         bool
	loadNoImageUpload  bool
)

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load <venue>",
	Short: "Load a venue's artworks into the knowledge base",
	Long: `Load fetches a venue's catalogue records, normalizes their dates and
medium descriptions, and creates or updates knowledge base items.

Works are skipped when they are not public domain, already registered,
unmapped, or incomplete; every skip is logged with its reason.

Example:
  artbot load ycba --trial
  artbot load ycba -c 50 --filter-category Drawing
  artbot load ycba --filter YCBA_B1981_25_51 --update`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().IntVarP(&loadCount, "count", "c", 0, "number of works to process (0 = all)")
	loadCmd.Flags().StringVar(&loadFilter, "filter", "", "process a single artwork id")
	loadCmd.Flags().StringVar(&loadFilterCategory, "filter-category", "", "only process works of this category")
	loadCmd.Flags().StringVar(&loadInstance, "instance", "", "record source instance (prod or uat)")
	loadCmd.Flags().StringVar(&loadLocale, "locale", "", "record source locale")
	loadCmd.Flags().StringVar(&loadListsDir, "lists-dir", "", "directory holding per-venue exclusion lists")
	loadCmd.Flags().StringVar(&loadRulesFile, "rules", "", "YAML medium rule table overriding the built-in one")
	loadCmd.Flags().StringVar(&loadCategoriesFile, "categories", "", "YAML category mapping overriding the built-in one")
	loadCmd.Flags().StringVar(&loadOutputDir, "output-dir", "", "trial output directory (empty = stdout)")
	loadCmd.Flags().StringVar(&loadOutputFormat, "format", "", "trial output format (json or yaml)")
	loadCmd.Flags().BoolVar(&loadTrial, "trial", false, "assemble and render records without uploading")
	loadCmd.Flags().BoolVarP(&loadUpdate, "update", "u", false, "update existing items, use with --filter")
	loadCmd.Flags().BoolVar(&loadNoImageUpload, "no-image-upload", false, "do not suggest images")
}

func runLoad(cmd *cobra.Command, args []string) error {
	if loadUpdate && loadFilter == "" {
		return fmt.Errorf("--update must be used with --filter")
	}

	cfg := loadConfig()
	if cfg.Source.BaseURL == "" {
		return fmt.Errorf("no record source configured (set source.base_url or ARTBOT_SOURCE_BASE_URL)")
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	summary, err := p.Run(context.Background(), pipeline.Options{
		Venue:          args[0],
		Count:          loadCount,
		Filter:         loadFilter,
		FilterCategory: loadFilterCategory,
		Trial:          loadTrial,
		Update:         loadUpdate,
		NoImageUpload:  loadNoImageUpload,
	})
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "%d fetched, %d assembled, %d skipped, %d created, %d uploaded, %d failed\n",
		summary.Fetched, summary.Assembled, summary.Skipped, summary.Created, summary.Uploaded, summary.Failed)
	return nil
}

// loadConfig folds defaults, config file, environment, and flags together
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()
	_ = viper.Unmarshal(cfg)

	if loadInstance != "" {
		cfg.Source.Instance = loadInstance
	}
	if loadLocale != "" {
		cfg.Source.Locale = loadLocale
	}
	if loadListsDir != "" {
		cfg.Source.ListsDir = loadListsDir
	}
	if loadRulesFile != "" {
		cfg.RulesFile = loadRulesFile
	}
	if loadCategoriesFile != "" {
		cfg.CategoriesFile = loadCategoriesFile
	}
	if loadOutputDir != "" {
		cfg.Output.Dir = loadOutputDir
	}
	if loadOutputFormat != "" {
		cfg.Output.Format = loadOutputFormat
	}
	cfg.Output.Verbose = verbose

	if cfg.LLM.Provider != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg
}
