// Package sqlite provides the persisted dual vector collections backed
// by SQLite. Embeddings are stored as little-endian float32 blobs and
// searched in-process with cosine similarity; a single examination
// manual produces a few hundred entries, well within brute-force range.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/campus-labs/examchat/internal/adapters/driven/vectorstore/sqlite/migrations"
	"github.com/campus-labs/examchat/internal/core/domain"
	"github.com/campus-labs/examchat/internal/core/ports/driven"
)

// Collection names used by the hierarchical index.
const (
	SummaryCollection = "manual_summaries"
	ChunkCollection   = "manual_chunks"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// Store owns the SQLite database holding both collections.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates or opens the index store under dataDir.
// If dataDir is empty, defaults to ~/.examchat/data/index.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".examchat", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// WAL mode for better concurrency between ingestion and queries
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Summaries returns the first-pass summary collection.
func (s *Store) Summaries() driven.VectorCollection {
	return &collection{store: s, name: SummaryCollection}
}

// Chunks returns the detail chunk collection.
func (s *Store) Chunks() driven.VectorCollection {
	return &collection{store: s, name: ChunkCollection}
}

// Reset clears both collections.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM entries"); err != nil {
		return fmt.Errorf("clearing entries: %w", err)
	}
	return nil
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
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
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

// collection is one named slice of the entries table.
type collection struct {
	store *Store
	name  string
}

var _ driven.VectorCollection = (*collection)(nil)

// Add inserts entries into the collection.
func (c *collection) Add(ctx context.Context, entries []driven.IndexEntry) error {
	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (collection, chunk_id, position, text, embedding)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(collection, chunk_id) DO UPDATE SET
			position = excluded.position,
			text = excluded.text,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		blob := float32SliceToBytes(e.Embedding)
		if _, err := stmt.ExecContext(ctx, c.name, e.Meta.ChunkID, e.Meta.Index, e.Text, blob); err != nil {
			return fmt.Errorf("inserting entry %s: %w", e.Meta.ChunkID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing insert: %w", err)
	}
	return nil
}

// SimilaritySearch scans the collection and returns the k entries with
// the highest cosine similarity to the query vector.
func (c *collection) SimilaritySearch(ctx context.Context, query []float32, k int) ([]driven.SearchHit, error) {
	if k <= 0 {
		return nil, nil
	}

	rows, err := c.store.db.QueryContext(ctx, `
		SELECT chunk_id, position, text, embedding
		FROM entries WHERE collection = ?
	`, c.name)
	if err != nil {
		return nil, fmt.Errorf("querying collection %s: %w", c.name, err)
	}
	defer rows.Close()

	var hits []driven.SearchHit
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		hits = append(hits, driven.SearchHit{
			Entry:      entry,
			Similarity: cosineSimilarity(query, entry.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating collection %s: %w", c.name, err)
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// GetByChunkIDs fetches entries by exact chunk_id membership, ordered
// by chunk position.
func (c *collection) GetByChunkIDs(ctx context.Context, ids []string) ([]driven.IndexEntry, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(ids)+1)
	args = append(args, c.name)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := c.store.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT chunk_id, position, text, embedding
		FROM entries
		WHERE collection = ? AND chunk_id IN (%s)
		ORDER BY position
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("fetching by chunk_id: %w", err)
	}
	defer rows.Close()

	var out []driven.IndexEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunk_id fetch: %w", err)
	}
	return out, nil
}

// Count returns the number of entries in the collection.
func (c *collection) Count(ctx context.Context) (int, error) {
	var count int
	row := c.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM entries WHERE collection = ?", c.name)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting collection %s: %w", c.name, err)
	}
	return count, nil
}

func scanEntry(rows *sql.Rows) (driven.IndexEntry, error) {
	var entry driven.IndexEntry
	var meta domain.ChunkMeta
	var blob []byte
	if err := rows.Scan(&meta.ChunkID, &meta.Index, &entry.Text, &blob); err != nil {
		return driven.IndexEntry{}, fmt.Errorf("scanning entry: %w", err)
	}
	entry.Meta = meta
	entry.Embedding = bytesToFloat32Slice(blob)
	return entry, nil
}

// cosineSimilarity computes the cosine of the angle between two
// vectors. Mismatched or zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
