package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// docNamespace is the UUIDv5 namespace for deterministic document and
// chunk identifiers. Re-ingesting the same corpus must produce the same
// IDs so that upserts replace rather than duplicate.
var docNamespace = uuid.MustParse("8f6f3e0a-1d2b-4c4e-9f5a-7b8e2d1c0a9b")

// JobPosting is a single row of the job corpus. All fields are optional
// except that a posting needs a title or a company to be indexable.
// Postings are immutable once loaded.
type JobPosting struct {
	Title          string
	Company        string
	Location       string
	ContractType   string
	PostedDate     string
	EducationLevel string
	Skills         string
	Languages      string
	SalaryRange    string
	Description    string
	URL            string
}

// Indexable reports whether the posting carries enough identity to be
// worth indexing. Rows missing both title and company are dropped.
func (p JobPosting) Indexable() bool {
	return strings.TrimSpace(p.Title) != "" || strings.TrimSpace(p.Company) != ""
}

// Render produces the labelled content blob stored in the index.
// The label strings and their order are an interface contract: the
// formatter and any downstream field extraction parse this template,
// so they must not change independently.
func (p JobPosting) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", p.Title)
	fmt.Fprintf(&b, "Company: %s\n", p.Company)
	fmt.Fprintf(&b, "Location: %s\n", p.Location)
	fmt.Fprintf(&b, "Contract Type: %s\n", p.ContractType)
	fmt.Fprintf(&b, "Posted Date: %s\n", p.PostedDate)
	fmt.Fprintf(&b, "Education Level: %s\n", p.EducationLevel)
	fmt.Fprintf(&b, "Skills: %s\n", p.Skills)
	fmt.Fprintf(&b, "Languages: %s\n", p.Languages)
	fmt.Fprintf(&b, "Salary Range: %s\n", p.SalaryRange)
	fmt.Fprintf(&b, "\nDescription:\n%s\n", p.Description)
	fmt.Fprintf(&b, "\nURL: %s\n", p.URL)
	return b.String()
}

// Meta returns the display/filtering subset of the posting.
func (p JobPosting) Meta() PostingMeta {
	return PostingMeta{
		Title:        p.Title,
		Company:      p.Company,
		Location:     p.Location,
		ContractType: p.ContractType,
		Skills:       p.Skills,
		Languages:    p.Languages,
		URL:          p.URL,
	}
}

// PostingMeta is the typed metadata carried by documents and chunks.
// It replaces the ad-hoc key/value maps of earlier iterations so that
// field access is checked at compile time.
type PostingMeta struct {
	Title        string `json:"title"`
	Company      string `json:"company"`
	Location     string `json:"location"`
	ContractType string `json:"contract_type"`
	Skills       string `json:"skills"`
	Languages    string `json:"languages"`
	URL          string `json:"url"`
}

// Document is the unit of ingestion: one posting rendered into the
// labelled content template plus its typed metadata.
type Document struct {
	// ID is deterministic for a given source and posting identity.
	ID string

	// SourcePath is the corpus file the posting came from.
	SourcePath string

	// Content is the full labelled text (see JobPosting.Render).
	Content string

	// Meta is the display/filtering subset of the posting fields.
	Meta PostingMeta

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Chunk is a bounded slice of a Document's content, sized for the
// embedding model. Chunks inherit the parent metadata verbatim and are
// distinguished only by position.
type Chunk struct {
	// ID is deterministic: derived from the document ID and position.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text covered by this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Embedding is the vector representation, set during ingestion.
	Embedding []float32

	// Meta is copied from the parent document.
	Meta PostingMeta
}

// DocumentID derives the stable identifier for a posting loaded from
// sourcePath. Title, company and URL identify a posting; re-ingesting
// an unchanged corpus therefore hits the same IDs.
func DocumentID(sourcePath string, p JobPosting) string {
	name := sourcePath + "|" + p.Title + "|" + p.Company + "|" + p.URL
	return uuid.NewSHA1(docNamespace, []byte(name)).String()
}

// ChunkID derives the stable identifier for the chunk at position
// within the document.
func ChunkID(documentID string, position int) string {
	name := fmt.Sprintf("%s#%d", documentID, position)
	return uuid.NewSHA1(docNamespace, []byte(name)).String()
}

// labelPatterns matches "Label: value" lines in rendered content.
var labelPatterns = map[string]*regexp.Regexp{}

func init() {
	for _, label := range []string{
		"Title", "Company", "Location", "Contract Type", "Posted Date",
		"Education Level", "Skills", "Languages", "Salary Range", "URL",
	} {
		labelPatterns[label] = regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(label) + `:[ \t]*(.*)$`)
	}
}

// ExtractField pulls a labelled value out of rendered content. It
// returns "" when the label is absent. Use the exact label strings
// from the template ("Contract Type", not "contract_type").
func ExtractField(content, label string) string {
	re, ok := labelPatterns[label]
	if !ok {
		return ""
	}
	m := re.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// ExtractDescription returns the first paragraph after the
// "Description:" label, or "" when the label is absent.
func ExtractDescription(content string) string {
	const label = "Description:"
	idx := strings.Index(content, label)
	if idx == -1 {
		return ""
	}
	rest := strings.TrimSpace(content[idx+len(label):])
	if para, _, found := strings.Cut(rest, "\n\n"); found {
		return strings.TrimSpace(para)
	}
	return rest
}
