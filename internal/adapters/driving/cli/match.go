package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathfinder-labs/pathfinder-cli/internal/resume"
)

var (
	matchLimit int
	matchJSON  bool
	matchHTML  bool
)

var matchCmd = &cobra.Command{
	Use:   "match [resume-file]",
	Short: "Match a resume against indexed postings",
	Long: `Extracts the text of a resume (.pdf, .docx or plain text) and
returns the postings that fit it best.

Domain keywords found in the resume sharpen the query; a resume
without any is searched verbatim, truncated to a bounded length.`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().IntVarP(&matchLimit, "limit", "n", 5, "maximum number of results")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "output results as JSON")
	matchCmd.Flags().BoolVar(&matchHTML, "html", false, "output results as an HTML listing")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	svcs, err := getServices()
	if err != nil {
		return err
	}

	text, err := resume.ExtractFile(args[0])
	if err != nil {
		return fmt.Errorf("reading resume: %w", err)
	}

	results, err := svcs.Search.MatchResume(cmd.Context(), text, matchLimit)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	return printResults(cmd, svcs, results, matchJSON, matchHTML)
}
