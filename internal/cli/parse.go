package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wikicurator/artbot/internal/model"
	"github.com/wikicurator/artbot/internal/normalize"
)

var (
	parseDate   string
	parseMedium string
	parseRules  string
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Run the date and medium normalizers on free text",
	Long: `Parse runs the normalizers directly, without touching the record source
or the knowledge base. Useful for checking how a catalogue value will be
interpreted before a load.

Example:
  artbot parse --date "c.1884 - 86"
  artbot parse --medium "oil on canvas"
  artbot parse --date 1762 --medium "watercolour on paper"`,
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseDate, "date", "", "free-text creation date to normalize")
	parseCmd.Flags().StringVar(&parseMedium, "medium", "", "free-text medium description to extract")
	parseCmd.Flags().StringVar(&parseRules, "rules", "", "YAML medium rule table overriding the built-in one")
}

type parseOutput struct {
	Date      *model.Inception `json:"date,omitempty"`
	DateError string           `json:"date_error,omitempty"`
	Materials map[string]bool  `json:"materials,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	if parseDate == "" && parseMedium == "" {
		return fmt.Errorf("nothing to parse (use --date and/or --medium)")
	}

	out := parseOutput{}

	if parseDate != "" {
		inception, err := normalize.Date(parseDate)
		if err != nil {
			out.DateError = err.Error()
		} else {
			out.Date = inception
		}
	}

	if parseMedium != "" {
		ruleset := normalize.DefaultRuleset()
		if parseRules != "" {
			loaded, err := normalize.LoadRuleset(parseRules)
			if err != nil {
				return err
			}
			ruleset = loaded
		}
		extractor, err := normalize.NewMediumExtractor(ruleset)
		if err != nil {
			return err
		}
		out.Materials = extractor.Extract(parseMedium)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
