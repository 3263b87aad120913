package docrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msuny-c/fdb-viewer/internal/domain/document"
	"github.com/msuny-c/fdb-viewer/internal/domain/fdb"
)

const schema = `
	CREATE TABLE IF NOT EXISTS documents (
		id          VARCHAR(8) PRIMARY KEY,
		title       VARCHAR(200),
		data        JSONB NOT NULL,
		group_text  TEXT NOT NULL DEFAULT '',
		stats       JSONB NOT NULL DEFAULT '{}',
		assets      TEXT[] NOT NULL DEFAULT '{}',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// PostgresRepository implements document.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the documents table when it is missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

// Create inserts the document. A taken id yields document.ErrDuplicateID.
func (r *PostgresRepository) Create(ctx context.Context, doc document.Document) error {
	data, err := json.Marshal(doc.Groups)
	if err != nil {
		return fmt.Errorf("encode groups: %w", err)
	}
	stats, err := json.Marshal(doc.Stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	assets := doc.Assets
	if assets == nil {
		assets = []string{}
	}
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO documents (id, title, data, group_text, stats, assets, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`, doc.ID, doc.Title, data, doc.GroupText, stats, assets, doc.CreatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return document.ErrDuplicateID
	}
	return nil
}

// Get loads a document by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (document.Document, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, data, group_text, stats, assets, created_at
		FROM documents
		WHERE id = $1
	`, id)

	var (
		doc       document.Document
		title     *string
		data      []byte
		stats     []byte
		createdAt time.Time
	)
	if err := row.Scan(&doc.ID, &title, &data, &doc.GroupText, &stats, &doc.Assets, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Document{}, false, nil
		}
		return document.Document{}, false, err
	}
	doc.Title = title
	doc.CreatedAt = createdAt
	if err := json.Unmarshal(data, &doc.Groups); err != nil {
		return document.Document{}, false, fmt.Errorf("decode groups: %w", err)
	}
	if len(stats) > 0 {
		if err := json.Unmarshal(stats, &doc.Stats); err != nil {
			return document.Document{}, false, fmt.Errorf("decode stats: %w", err)
		}
	}
	if doc.Groups == nil {
		doc.Groups = fdb.Grouped{}
	}
	return doc, true, nil
}

var _ document.Repository = (*PostgresRepository)(nil)
