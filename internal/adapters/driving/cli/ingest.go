package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [csv-file]",
	Short: "Index a CSV corpus of job postings",
	Long: `Loads the CSV corpus, chunks each posting, embeds the chunks and
writes them to the local index.

Ingestion is idempotent: re-running over the same corpus replaces
postings in place and never duplicates them. Rows missing both title
and company are skipped and counted.

With no argument, the corpus path from the config file is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	svcs, err := getServices()
	if err != nil {
		return err
	}

	path := svcs.Settings.Ingestion.CorpusPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return errors.New("no corpus file given and no corpus_path configured")
	}

	report, err := svcs.Ingest.Ingest(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Indexed %d postings (%d chunks, %d rows skipped)\n",
		report.Postings, report.Chunks, report.Skipped)
	return nil
}
