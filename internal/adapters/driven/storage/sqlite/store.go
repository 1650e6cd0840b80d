package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/civika-labs/faqd/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/civika-labs/faqd/internal/core/domain"
	"github.com/civika-labs/faqd/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// chunk cache and the unanswered-question log through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.faqd/data/faqd.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".faqd", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "faqd.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
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

// ChunkStore returns a ChunkStore interface backed by this store.
func (s *Store) ChunkStore() driven.ChunkStore {
	return &chunkStore{store: s}
}

// UnansweredStore returns an UnansweredStore interface backed by this store.
func (s *Store) UnansweredStore() driven.UnansweredStore {
	return &unansweredStore{store: s}
}

// ListUnanswered returns the most recent unanswered records, newest first,
// capped at limit. It exists for triage tooling; the core only appends.
func (s *Store) ListUnanswered(ctx context.Context, limit int) ([]domain.UnansweredRecord, error) {
	return (&unansweredStore{store: s}).List(ctx, limit)
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
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

// ==================== Chunk Store ====================

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// SaveChunks replaces the cached chunk set atomically. The cache is a
// lossless snapshot of one ingested document; a partial write would
// poison every later start-up, so the old rows only go when the new
// ones are fully in.
func (s *chunkStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, content, embedding)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		embeddingBlob := float32SliceToBytes(chunk.Embedding)

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.Text, embeddingBlob); err != nil {
			return fmt.Errorf("saving chunk %d: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListChunks returns all cached chunks ordered by id.
func (s *chunkStore) ListChunks(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, content, embedding
		FROM chunks
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var embeddingBlob []byte
		if err := rows.Scan(&chunk.ID, &chunk.Text, &embeddingBlob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}

		chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// CountChunks returns the number of cached chunks.
func (s *chunkStore) CountChunks(ctx context.Context) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// Close closes the underlying store.
func (s *chunkStore) Close() error {
	return s.store.Close()
}

// ==================== Unanswered Store ====================

// unansweredStore implements driven.UnansweredStore.
type unansweredStore struct {
	store *Store
}

var _ driven.UnansweredStore = (*unansweredStore)(nil)

// Append inserts a record into the unanswered-question log. The log is
// append-only; nothing in the daemon updates or deletes rows.
func (s *unansweredStore) Append(ctx context.Context, rec domain.UnansweredRecord) error {
	if rec.ID == "" {
		return domain.ErrInvalidInput
	}

	fragmentsJSON, err := json.Marshal(rec.ContextFragments)
	if err != nil {
		return fmt.Errorf("marshalling context fragments: %w", err)
	}

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO unanswered_questions (id, session_id, message, context_fragments, top_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.SessionID, rec.Message, string(fragmentsJSON), rec.TopScore, rec.CreatedAt)

	if err != nil {
		return fmt.Errorf("appending unanswered record: %w", err)
	}
	return nil
}

// List returns unanswered records, newest first, capped at limit.
// A limit of 0 or less returns everything.
func (s *unansweredStore) List(ctx context.Context, limit int) ([]domain.UnansweredRecord, error) {
	query := `
		SELECT id, session_id, message, context_fragments, top_score, created_at
		FROM unanswered_questions
		ORDER BY created_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying unanswered records: %w", err)
	}
	defer rows.Close()

	var records []domain.UnansweredRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec domain.UnansweredRecord
		var fragmentsJSON string
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Message,
			&fragmentsJSON, &rec.TopScore, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning unanswered record: %w", err)
		}

		if err := json.Unmarshal([]byte(fragmentsJSON), &rec.ContextFragments); err != nil {
			return nil, fmt.Errorf("unmarshalling context fragments: %w", err)
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating unanswered records: %w", err)
	}

	return records, nil
}

// ==================== Helper Functions ====================

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
