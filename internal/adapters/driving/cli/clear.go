package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every posting from the index",
	Long: `Deletes all indexed postings, chunks and vectors. The index
configuration (embedding dimension) is kept, so the next ingest does
not need any setup.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "skip the confirmation check")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if !clearForce {
		return errors.New("refusing to clear the index without --force")
	}

	svcs, err := getServices()
	if err != nil {
		return err
	}

	if err := svcs.Ingest.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}

	cmd.Println("Index cleared.")
	return nil
}
