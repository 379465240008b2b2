package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathfinder-labs/pathfinder-cli/internal/core/domain"
	"github.com/pathfinder-labs/pathfinder-cli/internal/formatter"
)

var (
	searchLimit int
	searchJSON  bool
	searchHTML  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed job postings",
	Long: `Searches the indexed postings with semantic similarity.

Queries containing a domain keyword (finance terms by default) are
re-ranked: the candidate pool is widened and postings matching the
keyword table are preferred. Zero results is a normal outcome.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchHTML, "html", false, "output results as an HTML listing")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	svcs, err := getServices()
	if err != nil {
		return err
	}

	results, err := svcs.Search.Search(cmd.Context(), args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	return printResults(cmd, svcs, results, searchJSON, searchHTML)
}

// resultRecord is the JSON output shape for one hit.
type resultRecord struct {
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Location    string  `json:"location"`
	URL         string  `json:"url"`
	Score       float64 `json:"score"`
	DomainMatch bool    `json:"domain_match"`
}

func printResults(cmd *cobra.Command, svcs *Services, results []domain.SearchResult, asJSON, asHTML bool) error {
	switch {
	case asJSON:
		records := make([]resultRecord, len(results))
		for i, r := range results {
			records[i] = resultRecord{
				Title:       r.Document.Meta.Title,
				Company:     r.Document.Meta.Company,
				Location:    r.Document.Meta.Location,
				URL:         r.Document.Meta.URL,
				Score:       r.Score,
				DomainMatch: r.DomainMatch,
			}
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding results: %w", err)
		}
		cmd.Println(string(data))

	case asHTML:
		cmd.Println(formatter.FormatHTML(cmd.Context(), svcs.LLM, results))

	default:
		cmd.Print(formatter.FormatText(results))
	}
	return nil
}
