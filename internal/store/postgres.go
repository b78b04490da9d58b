package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a document store on top of a single JSONB table. Logical
// collections are rows sharing a collection name; filters use the JSONB
// containment operator so they behave like the MongoDB backend.
type Postgres struct {
	pool *pgxpool.Pool
}

const createDocumentsTable = `
CREATE TABLE IF NOT EXISTS documents (
	id         uuid PRIMARY KEY,
	collection text NOT NULL,
	body       jsonb NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS documents_collection_idx
	ON documents (collection, created_at DESC);`

// NewPostgres wraps a connection pool and ensures the documents table
// exists.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	if _, err := pool.Exec(ctx, createDocumentsTable); err != nil {
		return nil, fmt.Errorf("ensure documents table: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) InsertOne(ctx context.Context, collection string, record any) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	// Reuse the record's own id as the primary key so duplicate ids
	// surface as constraint violations, like the MongoDB backend.
	id := recordID(body)

	_, err = p.pool.Exec(ctx,
		`INSERT INTO documents (id, collection, body) VALUES ($1, $2, $3)`,
		id, collection, body)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", collection, err)
	}
	return nil
}

func (p *Postgres) Find(ctx context.Context, collection string, filter Filter, limit int64) ([]Document, error) {
	filterJSON, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("encode filter: %w", err)
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := p.pool.Query(ctx,
		`SELECT body FROM documents
		 WHERE collection = $1 AND body @> $2
		 ORDER BY created_at DESC
		 LIMIT $3`,
		collection, filterJSON, limit)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		var doc Document
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (p *Postgres) CountDocuments(ctx context.Context, collection string, filter Filter) (int64, error) {
	filterJSON, err := json.Marshal(filter)
	if err != nil {
		return 0, fmt.Errorf("encode filter: %w", err)
	}

	var count int64
	err = p.pool.QueryRow(ctx,
		`SELECT count(*) FROM documents WHERE collection = $1 AND body @> $2`,
		collection, filterJSON).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count in %s: %w", collection, err)
	}
	return count, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close(context.Context) error {
	p.pool.Close()
	return nil
}

// recordID extracts the record's id field, falling back to a fresh UUID
// for records that do not carry one.
func recordID(body []byte) string {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &probe); err == nil && probe.ID != "" {
		return probe.ID
	}
	return uuid.NewString()
}
