package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/pathfinder-labs/pathfinder-cli/internal/logger"
)

// watchDebounce coalesces the burst of write events editors and
// exporters produce for a single save.
const watchDebounce = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [csv-file]",
	Short: "Re-index the corpus whenever the file changes",
	Long: `Watches the corpus file and re-runs ingestion after every change.
Runs until interrupted.

With no argument, the corpus path from the config file is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files on
	// save, which drops a direct file watch.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	ingest := func() {
		report, err := svcs.Ingest.Ingest(cmd.Context(), path)
		if err != nil {
			logger.Warn("Re-ingestion failed: %v", err)
			return
		}
		cmd.Printf("Re-indexed %d postings (%d chunks, %d rows skipped)\n",
			report.Postings, report.Chunks, report.Skipped)
	}

	cmd.Printf("Watching %s (interrupt to stop)\n", path)
	ingest()

	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-cmd.Context().Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case <-pending:
			ingest()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}
