// Package sqlite provides the persistent vector store.
//
// One row in records per document, with its chunk+vector pairs in
// record_chunks ordered by position. Vectors are stored as little-endian
// float32 blobs. A Write replaces the whole record inside a single
// transaction, so readers never observe a half-written record.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/clinisearch/clinisearch-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/clinisearch/clinisearch-cli/internal/core/domain"
	"github.com/clinisearch/clinisearch-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is a SQLite-backed vector store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite vector store in the specified data directory.
// If dataDir is empty, defaults to ~/.clinisearch/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".clinisearch", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "vectors.db")

	// WAL mode for better concurrency between readers and the writer.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

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
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
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
		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Write persists the record, fully replacing any existing record for the
// same document id in one transaction.
func (s *Store) Write(ctx context.Context, record *domain.VectorRecord) error {
	if record == nil || record.DocumentID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO records (document_id, document_type, model, dimension, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			document_type = excluded.document_type,
			model = excluded.model,
			dimension = excluded.dimension,
			created_at = excluded.created_at
	`, record.DocumentID, record.DocumentType, record.Model,
		record.Dimension, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving record: %w", err)
	}

	// Drop stale chunks before inserting: a replacement record may have
	// fewer chunks than its predecessor.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM record_chunks WHERE document_id = ?", record.DocumentID); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO record_chunks (id, document_id, content, position, tokens, page, source_file, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, pair := range record.Chunks {
		chunk := pair.Chunk
		if _, err := stmt.ExecContext(ctx, chunk.ID, record.DocumentID, chunk.Content,
			chunk.Position, chunk.Tokens, chunk.Page, chunk.SourceFile,
			float32SliceToBytes(pair.Vector)); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Read returns the record for the document id. Both queries run inside
// one transaction, so a concurrent replacement cannot interleave between
// the record row and its chunk rows.
func (s *Store) Read(ctx context.Context, docID string) (*domain.VectorRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	row := tx.QueryRowContext(ctx, `
		SELECT document_id, document_type, model, dimension, created_at
		FROM records WHERE document_id = ?
	`, docID)

	var info domain.RecordInfo
	if err := row.Scan(&info.DocumentID, &info.DocumentType, &info.Model,
		&info.Dimension, &info.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning record: %w", err)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT id, content, position, tokens, page, source_file, embedding
		FROM record_chunks WHERE document_id = ?
		ORDER BY position
	`, docID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	var vectors [][]float32
	for rows.Next() {
		var chunk domain.Chunk
		var embeddingBlob []byte
		if err := rows.Scan(&chunk.ID, &chunk.Content, &chunk.Position,
			&chunk.Tokens, &chunk.Page, &chunk.SourceFile, &embeddingBlob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.DocumentID = docID
		chunks = append(chunks, chunk)
		vectors = append(vectors, bytesToFloat32Slice(embeddingBlob))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	// Rebuild through the constructor so a corrupted row set (truncated
	// blob, missing chunk) is caught here rather than during ranking.
	record, err := domain.NewVectorRecord(info.DocumentID, info.DocumentType,
		info.Model, info.Dimension, chunks, vectors)
	if err != nil {
		return nil, fmt.Errorf("rebuilding record %s: %w", docID, err)
	}
	record.CreatedAt = info.CreatedAt

	return record, nil
}

// List enumerates all stored records, most recent first.
func (s *Store) List(ctx context.Context) ([]domain.RecordInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.document_id, r.document_type, r.model, r.dimension, r.created_at,
		       COUNT(c.id)
		FROM records r
		LEFT JOIN record_chunks c ON c.document_id = r.document_id
		GROUP BY r.document_id
		ORDER BY r.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var infos []domain.RecordInfo //nolint:prealloc // size unknown from query
	for rows.Next() {
		var info domain.RecordInfo
		if err := rows.Scan(&info.DocumentID, &info.DocumentType, &info.Model,
			&info.Dimension, &info.CreatedAt, &info.ChunkCount); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	return infos, nil
}

// Delete removes the record for the document id. Chunks go with it via
// the foreign key cascade. Deleting a non-existent id is not an error.
func (s *Store) Delete(ctx context.Context, docID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE document_id = ?", docID)
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	return nil
}

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
