// Package corpus loads the tabular job-postings corpus and turns each
// usable row into a domain.Document ready for chunking and indexing.
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pathfinder-labs/pathfinder-cli/internal/core/domain"
	"github.com/pathfinder-labs/pathfinder-cli/internal/logger"
)

// columns are the recognised header names, case-sensitive.
var columns = []string{
	"title", "company", "location", "contract_type", "posted_date",
	"education_level", "skills", "languages", "salary_range",
	"description", "url",
}

// nullMarkers are cell values that mean "empty". Upstream exports
// routinely leak these from dataframe tooling; they must never reach
// the rendered content.
var nullMarkers = map[string]bool{
	"nan": true, "NaN": true, "NULL": true, "null": true, "None": true,
}

// LoadResult is the outcome of loading one corpus file.
type LoadResult struct {
	// Documents are the postings that survived validation, in file order.
	Documents []domain.Document

	// Skipped counts rows dropped for missing both title and company
	// or for being structurally malformed.
	Skipped int
}

// Load reads the CSV corpus at path. The first row must be a header
// naming the columns. Rows missing both title and company are skipped
// with a logged reason; a malformed row never aborts the rest of the
// load.
func Load(path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus: %w", err)
	}
	defer f.Close()

	result, err := parse(f, path)
	if err != nil {
		return nil, fmt.Errorf("parsing corpus %s: %w", path, err)
	}
	return result, nil
}

func parse(r io.Reader, sourcePath string) (*LoadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are validated per-row below
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index := headerIndex(header)
	if _, ok := index["title"]; !ok {
		if _, ok := index["company"]; !ok {
			return nil, fmt.Errorf("%w: header has neither title nor company column",
				domain.ErrInvalidInput)
		}
	}

	result := &LoadResult{}
	now := time.Now().UTC()
	line := 1

	for {
		line++
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed row: skip and continue, never abort the batch.
			logger.Warn("Skipping corpus row %d: %v", line, err)
			result.Skipped++
			continue
		}

		posting := rowToPosting(record, index)
		if !posting.Indexable() {
			logger.Debug("Skipping corpus row %d: missing both title and company", line)
			result.Skipped++
			continue
		}

		result.Documents = append(result.Documents, domain.Document{
			ID:         domain.DocumentID(sourcePath, posting),
			SourcePath: sourcePath,
			Content:    posting.Render(),
			Meta:       posting.Meta(),
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	logger.Info("Loaded %d postings from %s (%d rows skipped)",
		len(result.Documents), sourcePath, result.Skipped)
	return result, nil
}

// headerIndex maps recognised column names to their position.
// Unrecognised columns are ignored.
func headerIndex(header []string) map[string]int {
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if known[name] {
			index[name] = i
		}
	}
	return index
}

func rowToPosting(record []string, index map[string]int) domain.JobPosting {
	cell := func(column string) string {
		i, ok := index[column]
		if !ok || i >= len(record) {
			return ""
		}
		return normalizeCell(record[i])
	}

	return domain.JobPosting{
		Title:          cell("title"),
		Company:        cell("company"),
		Location:       cell("location"),
		ContractType:   cell("contract_type"),
		PostedDate:     cell("posted_date"),
		EducationLevel: cell("education_level"),
		Skills:         cell("skills"),
		Languages:      cell("languages"),
		SalaryRange:    cell("salary_range"),
		Description:    cell("description"),
		URL:            cell("url"),
	}
}

// normalizeCell trims whitespace and maps dataframe null markers to
// the empty string so rendered content never contains a literal "nan".
func normalizeCell(value string) string {
	value = strings.TrimSpace(value)
	if nullMarkers[value] {
		return ""
	}
	return value
}
