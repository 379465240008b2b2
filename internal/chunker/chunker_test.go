package chunker

import (
	"errors"
	"strings"
	"testing"

	"github.com/pathfinder-labs/pathfinder-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		s, err := New()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, s.chunkSize)
		}
		if s.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, s.overlap)
		}
	})

	t.Run("custom values", func(t *testing.T) {
		s, err := New(WithChunkSize(500), WithOverlap(50))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.chunkSize != 500 || s.overlap != 50 {
			t.Errorf("expected 500/50, got %d/%d", s.chunkSize, s.overlap)
		}
	})

	t.Run("overlap >= chunk size rejected", func(t *testing.T) {
		_, err := New(WithChunkSize(100), WithOverlap(100))
		if !errors.Is(err, domain.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		s, err := New(WithChunkSize(0), WithOverlap(-1))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.chunkSize != DefaultChunkSize || s.overlap != DefaultChunkOverlap {
			t.Errorf("expected defaults, got %d/%d", s.chunkSize, s.overlap)
		}
	})
}

func testDoc(content string) *domain.Document {
	return &domain.Document{
		ID:      "doc-1",
		Content: content,
		Meta:    domain.PostingMeta{Title: "Data Analyst", Company: "Acme"},
	}
}

func TestSplitter_Split(t *testing.T) {
	t.Run("empty content produces no chunks", func(t *testing.T) {
		s, _ := New()
		if got := s.Split(testDoc("")); got != nil {
			t.Errorf("expected nil, got %d chunks", len(got))
		}
	})

	t.Run("short content is a single chunk", func(t *testing.T) {
		s, _ := New()
		chunks := s.Split(testDoc("short content"))
		if len(chunks) != 1 {
			t.Fatalf("expected 1 chunk, got %d", len(chunks))
		}
		if chunks[0].Content != "short content" {
			t.Errorf("unexpected content: %q", chunks[0].Content)
		}
		if chunks[0].Position != 0 {
			t.Errorf("expected position 0, got %d", chunks[0].Position)
		}
	})

	t.Run("prefers paragraph breaks", func(t *testing.T) {
		content := strings.Repeat("a", 40) + "\n\n" + strings.Repeat("b", 40)
		s, _ := New(WithChunkSize(60), WithOverlap(0))
		chunks := s.Split(testDoc(content))
		if len(chunks) != 2 {
			t.Fatalf("expected 2 chunks, got %d", len(chunks))
		}
		if !strings.HasSuffix(chunks[0].Content, "\n\n") {
			t.Errorf("first chunk should end at the paragraph break, got %q", chunks[0].Content)
		}
	})

	t.Run("falls back to sentence breaks", func(t *testing.T) {
		content := strings.Repeat("a", 40) + ". " + strings.Repeat("b", 40)
		s, _ := New(WithChunkSize(60), WithOverlap(0))
		chunks := s.Split(testDoc(content))
		if len(chunks) != 2 {
			t.Fatalf("expected 2 chunks, got %d", len(chunks))
		}
		if !strings.HasSuffix(chunks[0].Content, ". ") {
			t.Errorf("first chunk should end at the sentence break, got %q", chunks[0].Content)
		}
	})

	t.Run("hard cut without separators", func(t *testing.T) {
		content := strings.Repeat("x", 250)
		s, _ := New(WithChunkSize(100), WithOverlap(0))
		chunks := s.Split(testDoc(content))
		if len(chunks) != 3 {
			t.Fatalf("expected 3 chunks, got %d", len(chunks))
		}
		if len(chunks[0].Content) != 100 {
			t.Errorf("expected hard cut at 100, got %d", len(chunks[0].Content))
		}
	})

	t.Run("metadata copied verbatim", func(t *testing.T) {
		content := strings.Repeat("word ", 100)
		s, _ := New(WithChunkSize(80), WithOverlap(10))
		for _, c := range s.Split(testDoc(content)) {
			if c.Meta.Title != "Data Analyst" || c.Meta.Company != "Acme" {
				t.Errorf("chunk %d lost metadata: %+v", c.Position, c.Meta)
			}
			if c.DocumentID != "doc-1" {
				t.Errorf("chunk %d lost document link", c.Position)
			}
		}
	})

	t.Run("deterministic chunk ids", func(t *testing.T) {
		content := strings.Repeat("word ", 100)
		s, _ := New(WithChunkSize(80), WithOverlap(10))
		first := s.Split(testDoc(content))
		second := s.Split(testDoc(content))
		if len(first) != len(second) {
			t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i].ID != second[i].ID {
				t.Errorf("chunk %d id not deterministic", i)
			}
		}
	})
}

// TestSplitter_OverlapInvariant verifies that each chunk after the
// first begins with the trailing overlap of its predecessor, for a
// range of valid configurations.
func TestSplitter_OverlapInvariant(t *testing.T) {
	// Non-repeating-period content so a broken overlap cannot pass by
	// coincidence.
	content := strings.Repeat("abcdefghijklmnopqrstuvw ", 40)

	configs := []struct{ size, overlap int }{
		{100, 20},
		{100, 50},
		{200, 10},
		{64, 63},
	}

	for _, cfg := range configs {
		s, err := New(WithChunkSize(cfg.size), WithOverlap(cfg.overlap))
		if err != nil {
			t.Fatalf("config %d/%d: %v", cfg.size, cfg.overlap, err)
		}
		chunks := s.Split(testDoc(content))
		for i := 1; i < len(chunks); i++ {
			prev := chunks[i-1].Content
			curr := chunks[i].Content
			if len(prev) < cfg.overlap || len(curr) < cfg.overlap {
				continue // final chunk may be shorter than the overlap
			}
			tail := prev[len(prev)-cfg.overlap:]
			head := curr[:cfg.overlap]
			if tail != head {
				t.Errorf("config %d/%d: chunk %d does not start with predecessor's tail",
					cfg.size, cfg.overlap, i)
			}
		}
	}
}

func TestSplitter_SplitAll(t *testing.T) {
	s, _ := New(WithChunkSize(100), WithOverlap(10))
	docs := []domain.Document{
		{ID: "a", Content: strings.Repeat("a", 250)},
		{ID: "b", Content: strings.Repeat("b", 50)},
	}
	chunks := s.SplitAll(docs)
	if len(chunks) < 4 {
		t.Fatalf("expected at least 4 chunks, got %d", len(chunks))
	}
	var aChunks, bChunks int
	for _, c := range chunks {
		switch c.DocumentID {
		case "a":
			aChunks++
		case "b":
			bChunks++
		}
	}
	if bChunks != 1 {
		t.Errorf("expected 1 chunk for short doc, got %d", bChunks)
	}
	if aChunks < 3 {
		t.Errorf("expected at least 3 chunks for long doc, got %d", aChunks)
	}
}
