// Package sqlite provides the persistent storage adapter. One SQLite
// database holds the job documents, their chunks and the vector index,
// so ingestion state survives process restarts.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pathfinder-labs/pathfinder-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/pathfinder-labs/pathfinder-cli/internal/core/domain"
	"github.com/pathfinder-labs/pathfinder-cli/internal/core/ports/driven"
)

// metric is the only similarity metric this index supports.
const metric = "cosine"

// Store is a unified SQLite-based storage providing the DocumentStore
// and VectorIndex interfaces through wrapper types.
type Store struct {
	db         *sql.DB
	path       string
	dimensions int
}

// NewStore opens (or creates) the store at dataDir with a fixed vector
// dimension. If dataDir is empty, defaults to ~/.pathfinder/data.
//
// Opening an existing store is idempotent when the dimension matches.
// A conflicting dimension is a fatal configuration error surfaced
// immediately; it is never silently recreated with different settings.
func NewStore(dataDir string, dimensions int) (*Store, error) {
	if dimensions < 1 {
		return nil, fmt.Errorf("%w: vector dimension must be positive, got %d",
			domain.ErrInvalidConfig, dimensions)
	}

	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".pathfinder", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "jobs.db")

	// WAL mode keeps queries readable while an ingestion writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:         db,
		path:       dbPath,
		dimensions: dimensions,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if err := s.checkIndexMeta(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// checkIndexMeta records the index dimension/metric on first open and
// verifies them on every later open.
func (s *Store) checkIndexMeta() error {
	var dimension int
	var storedMetric string
	err := s.db.QueryRow("SELECT dimension, metric FROM index_meta WHERE id = 1").
		Scan(&dimension, &storedMetric)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.db.Exec("INSERT INTO index_meta (id, dimension, metric) VALUES (1, ?, ?)",
			s.dimensions, metric)
		if err != nil {
			return fmt.Errorf("recording index metadata: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("reading index metadata: %w", err)
	}

	if dimension != s.dimensions {
		return fmt.Errorf("%w: index was created with dimension %d, requested %d",
			domain.ErrInvalidConfig, dimension, s.dimensions)
	}
	if storedMetric != metric {
		return fmt.Errorf("%w: index was created with metric %q, requested %q",
			domain.ErrInvalidConfig, storedMetric, metric)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// VectorIndex returns a VectorIndex interface backed by this store.
func (s *Store) VectorIndex() driven.VectorIndex {
	return &vectorIndex{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or updates a document.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, source_path, content, title, company, location,
			contract_type, skills, languages, url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_path = excluded.source_path,
			content = excluded.content,
			title = excluded.title,
			company = excluded.company,
			location = excluded.location,
			contract_type = excluded.contract_type,
			skills = excluded.skills,
			languages = excluded.languages,
			url = excluded.url,
			updated_at = excluded.updated_at
	`, doc.ID, doc.SourcePath, doc.Content, doc.Meta.Title, doc.Meta.Company,
		doc.Meta.Location, doc.Meta.ContractType, doc.Meta.Skills,
		doc.Meta.Languages, doc.Meta.URL, doc.CreatedAt, doc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// SaveChunks stores chunks, upserting by chunk ID.
func (s *documentStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, content, position, meta)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			content = excluded.content,
			position = excluded.position,
			meta = excluded.meta
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		metaJSON, err := json.Marshal(chunk.Meta)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID,
			chunk.Content, chunk.Position, string(metaJSON)); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source_path, content, title, company, location,
			contract_type, skills, languages, url, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)

	var doc domain.Document
	err := row.Scan(&doc.ID, &doc.SourcePath, &doc.Content, &doc.Meta.Title,
		&doc.Meta.Company, &doc.Meta.Location, &doc.Meta.ContractType,
		&doc.Meta.Skills, &doc.Meta.Languages, &doc.Meta.URL,
		&doc.CreatedAt, &doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return &doc, nil
}

// GetChunk retrieves a chunk by ID.
func (s *documentStore) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, document_id, content, position, meta
		FROM chunks WHERE id = ?
	`, id)

	var chunk domain.Chunk
	var metaJSON string
	err := row.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Content,
		&chunk.Position, &metaJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}
	if err := json.Unmarshal([]byte(metaJSON), &chunk.Meta); err != nil {
		return nil, fmt.Errorf("unmarshalling chunk metadata: %w", err)
	}
	return &chunk, nil
}

// DeleteChunksFrom removes the chunks of documentID at positions
// >= fromPosition and returns their IDs.
func (s *documentStore) DeleteChunksFrom(ctx context.Context, documentID string, fromPosition int) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id FROM chunks WHERE document_id = ? AND position >= ?
	`, documentID, fromPosition)
	if err != nil {
		return nil, fmt.Errorf("listing stale chunks: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning chunk id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing stale chunks: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	if _, err := s.store.db.ExecContext(ctx, `
		DELETE FROM chunks WHERE document_id = ? AND position >= ?
	`, documentID, fromPosition); err != nil {
		return nil, fmt.Errorf("deleting stale chunks: %w", err)
	}
	return ids, nil
}

// CountChunks returns the total number of stored chunks.
func (s *documentStore) CountChunks(ctx context.Context) (int, error) {
	var count int
	row := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// Reset removes every document and chunk.
func (s *documentStore) Reset(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("clearing documents: %w", err)
	}
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}
	return nil
}

// ==================== Vector Index ====================

// vectorIndex is a brute-force cosine index over the vectors table.
// Suitable for corpora in the tens of thousands of chunks; the scan is
// a single sequential read of the table.
type vectorIndex struct {
	store *Store
}

var _ driven.VectorIndex = (*vectorIndex)(nil)

// Upsert inserts or replaces the vector for the given chunk ID.
// Replacing keeps the original insertion sequence, so result ordering
// stays stable across re-ingestion.
func (v *vectorIndex) Upsert(ctx context.Context, chunkID string, embedding []float32) error {
	if len(embedding) != v.store.dimensions {
		return fmt.Errorf("%w: embedding has %d dimensions, index expects %d",
			domain.ErrInvalidConfig, len(embedding), v.store.dimensions)
	}

	_, err := v.store.db.ExecContext(ctx, `
		INSERT INTO vectors (id, embedding)
		VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET embedding = excluded.embedding
	`, chunkID, float32SliceToBytes(embedding))
	if err != nil {
		return fmt.Errorf("upserting vector: %w", err)
	}
	return nil
}

// Search scans the vectors table and returns the k most similar
// vectors, ordered by descending cosine similarity with ties broken by
// insertion order.
func (v *vectorIndex) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be a positive integer, got %d",
			domain.ErrInvalidInput, k)
	}
	if len(query) != v.store.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, index expects %d",
			domain.ErrInvalidConfig, len(query), v.store.dimensions)
	}

	rows, err := v.store.db.QueryContext(ctx,
		"SELECT id, embedding FROM vectors ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	var hits []driven.VectorHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, fmt.Errorf("scanning vector: %w", err)
		}
		hits = append(hits, driven.VectorHit{
			ChunkID:    id,
			Similarity: cosine(query, bytesToFloat32Slice(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vectors: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Delete removes a vector from the index. Unknown IDs are a no-op.
func (v *vectorIndex) Delete(ctx context.Context, chunkID string) error {
	if _, err := v.store.db.ExecContext(ctx,
		"DELETE FROM vectors WHERE id = ?", chunkID); err != nil {
		return fmt.Errorf("deleting vector: %w", err)
	}
	return nil
}

// Reset removes every vector.
func (v *vectorIndex) Reset(ctx context.Context) error {
	if _, err := v.store.db.ExecContext(ctx, "DELETE FROM vectors"); err != nil {
		return fmt.Errorf("clearing vectors: %w", err)
	}
	return nil
}

// Count returns the number of stored vectors.
func (v *vectorIndex) Count(ctx context.Context) (int, error) {
	var count int
	row := v.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM vectors")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting vectors: %w", err)
	}
	return count, nil
}

// Dimensions returns the fixed vector dimension.
func (v *vectorIndex) Dimensions() int { return v.store.dimensions }

// Close is a no-op; the wrapping Store owns the connection.
func (v *vectorIndex) Close() error { return nil }

// ==================== Helpers ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
