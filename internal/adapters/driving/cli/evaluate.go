package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	evalQueriesFile string
	evalLimit       int
	evalJSON        bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Measure retrieval quality over a query file",
	Long: `Runs every query from the file through search and reports latency
and score statistics. One query per line; blank lines and lines
starting with # are ignored.

A failing query is recorded in the report and the batch continues.`,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVarP(&evalQueriesFile, "queries", "q", "", "file with one query per line (required)")
	evaluateCmd.Flags().IntVarP(&evalLimit, "limit", "n", 5, "results per query")
	evaluateCmd.Flags().BoolVar(&evalJSON, "json", false, "output the full report as JSON")
	_ = evaluateCmd.MarkFlagRequired("queries")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	svcs, err := getServices()
	if err != nil {
		return err
	}

	queries, err := readQueries(evalQueriesFile)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		return fmt.Errorf("no queries found in %s", evalQueriesFile)
	}

	report, err := svcs.Eval.Evaluate(cmd.Context(), queries, evalLimit)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if evalJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Queries:         %d\n", len(report.PerQuery))
	cmd.Printf("Average latency: %s\n", report.AverageLatency)
	cmd.Printf("Average score:   %.4f\n", report.AverageScore)
	for _, qr := range report.PerQuery {
		if qr.Err != "" {
			cmd.Printf("  FAIL %-40q %v\n", qr.Query, qr.Err)
			continue
		}
		cmd.Printf("  ok   %-40q %3d results  %.4f  %s\n",
			qr.Query, qr.Results, qr.MeanScore, qr.Latency)
	}
	return nil
}

// readQueries loads a query file: one query per line, # comments and
// blank lines skipped.
func readQueries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening queries file: %w", err)
	}
	defer f.Close()

	var queries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading queries file: %w", err)
	}
	return queries, nil
}
