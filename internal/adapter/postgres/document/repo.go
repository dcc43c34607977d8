// Package document implements the localized document repository on
// PostgreSQL. A document row is (collection, doc_id, content) where content
// is a JSONB object whose top-level keys are language tags. Merge writes use
// JSONB concatenation so sibling language keys are never touched.
package document

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mitrafire/cms-backend/internal/adapter/postgres"
	"github.com/mitrafire/cms-backend/internal/domain"
)

// Repo provides document persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new document repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const getSQL = `
SELECT collection, doc_id, content, created_at, updated_at
FROM documents
WHERE collection = $1 AND doc_id = $2`

const getValueSQL = `
SELECT content -> $3
FROM documents
WHERE collection = $1 AND doc_id = $2`

const mergeUpsertSQL = `
INSERT INTO documents (collection, doc_id, content)
VALUES ($1, $2, $3)
ON CONFLICT (collection, doc_id)
DO UPDATE SET content = documents.content || EXCLUDED.content, updated_at = now()`

const replaceUpsertSQL = `
INSERT INTO documents (collection, doc_id, content)
VALUES ($1, $2, $3)
ON CONFLICT (collection, doc_id)
DO UPDATE SET content = EXCLUDED.content, updated_at = now()`

const seedUpsertSQL = `
INSERT INTO documents (collection, doc_id, content)
VALUES ($1, $2, $3)
ON CONFLICT (collection, doc_id)
DO UPDATE SET content = documents.content || EXCLUDED.content, updated_at = now()
WHERE NOT documents.content ? $4`

const deleteSQL = `DELETE FROM documents WHERE collection = $1 AND doc_id = $2`

// Get returns a document by (collection, id).
// Returns domain.ErrNotFound if the document does not exist.
func (r *Repo) Get(ctx context.Context, collection, id string) (*domain.Document, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	doc, err := scanDocument(q.QueryRow(ctx, getSQL, collection, id))
	if err != nil {
		return nil, postgres.MapError(err, "document", collection+"/"+id)
	}

	return doc, nil
}

// GetValue returns the payload stored under lang on (collection, id).
// An absent document and an absent language key are both domain.ErrNotFound;
// the caller decides what default to substitute.
func (r *Repo) GetValue(ctx context.Context, lang, collection, id string) (json.RawMessage, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var value []byte
	err := q.QueryRow(ctx, getValueSQL, collection, id, lang).Scan(&value)
	if err != nil {
		return nil, postgres.MapError(err, "document", collection+"/"+id)
	}
	if value == nil {
		return nil, fmt.Errorf("document %s/%s language %s: %w", collection, id, lang, domain.ErrNotFound)
	}

	return json.RawMessage(value), nil
}

// Upsert creates or updates a single document. With merge=true only the given
// top-level keys are written (JSONB concatenation); with merge=false the whole
// content object is replaced. An empty id gets a generated UUID. Returns the
// persisted document, including the generated id.
func (r *Repo) Upsert(ctx context.Context, collection, id string, content map[string]json.RawMessage, merge bool) (*domain.Document, error) {
	if id == "" {
		id = uuid.New().String()
	}

	body, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("marshal content: %w", err)
	}

	stmt := replaceUpsertSQL
	if merge {
		stmt = mergeUpsertSQL
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	if _, err := q.Exec(ctx, stmt, collection, id, body); err != nil {
		return nil, postgres.MapError(err, "document", collection+"/"+id)
	}

	return r.Get(ctx, collection, id)
}

// MergeLanguage merges one language's values into many documents of a
// collection, one merge-upsert per document, queued as a single pgx batch.
// Existing documents keep their sibling language keys; missing documents are
// created with only the given language populated. Callers that need
// all-or-nothing semantics run this inside TxManager.RunInTx.
// Returns the number of documents written.
func (r *Repo) MergeLanguage(ctx context.Context, lang, collection string, data map[string]json.RawMessage) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for id, value := range data {
		body, err := json.Marshal(map[string]json.RawMessage{lang: value})
		if err != nil {
			return 0, fmt.Errorf("marshal value for %s/%s: %w", collection, id, err)
		}
		batch.Queue(mergeUpsertSQL, collection, id, body)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for range data {
		if _, err := results.Exec(); err != nil {
			return 0, postgres.MapError(err, "document batch", collection)
		}
	}

	return len(data), nil
}

// SeedLanguage fills one language's values into documents of a collection
// without overwriting: a document that already carries the language key keeps
// its value untouched, missing documents are created, and documents missing
// only the language key gain it. Returns the number of documents actually
// written, which is how seeding stays safe to re-run after editors have made
// changes.
func (r *Repo) SeedLanguage(ctx context.Context, lang, collection string, data map[string]json.RawMessage) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for id, value := range data {
		body, err := json.Marshal(map[string]json.RawMessage{lang: value})
		if err != nil {
			return 0, fmt.Errorf("marshal value for %s/%s: %w", collection, id, err)
		}
		batch.Queue(seedUpsertSQL, collection, id, body, lang)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	written := 0
	for range data {
		tag, err := results.Exec()
		if err != nil {
			return 0, postgres.MapError(err, "document seed", collection)
		}
		written += int(tag.RowsAffected())
	}

	return written, nil
}

// Delete removes a whole document. Per-language deletion does not exist;
// content is trimmed via merge writes instead.
// Returns domain.ErrNotFound if the document does not exist.
func (r *Repo) Delete(ctx context.Context, collection, id string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteSQL, collection, id)
	if err != nil {
		return postgres.MapError(err, "document", collection+"/"+id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s/%s: %w", collection, id, domain.ErrNotFound)
	}

	return nil
}

// Filter narrows and pages a collection listing.
type Filter struct {
	// IDPrefix keeps only documents whose id starts with the prefix.
	IDPrefix string
	Limit    int
	Offset   int
}

const (
	defaultLimit = 50
	maxLimit     = 200
)

func (f *Filter) normalize() {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// List returns a page of documents from a collection ordered by id, plus the
// total count for the filter. Returns an empty slice (not nil) when the
// collection has no matching documents.
func (r *Repo) List(ctx context.Context, collection string, f Filter) ([]*domain.Document, int, error) {
	f.normalize()

	q := postgres.QuerierFromCtx(ctx, r.pool)

	base := psql.Select().From("documents").Where(sq.Eq{"collection": collection})
	if f.IDPrefix != "" {
		base = base.Where(sq.Like{"doc_id": escapeLike(f.IDPrefix) + "%"})
	}

	countSQL, countArgs, err := base.Column("count(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}

	listSQL, listArgs, err := base.
		Columns("collection", "doc_id", "content", "created_at", "updated_at").
		OrderBy("doc_id").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := q.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []*domain.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}

	return docs, total, nil
}

// Collections returns the distinct collection names present in the store.
func (r *Repo) Collections(ctx context.Context) ([]string, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `SELECT DISTINCT collection FROM documents ORDER BY collection`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	return names, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var (
		doc  domain.Document
		body []byte
	)
	var createdAt, updatedAt time.Time

	if err := row.Scan(&doc.Collection, &doc.ID, &body, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(body, &doc.Content); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}

	doc.CreatedAt = createdAt
	doc.UpdatedAt = updatedAt
	return &doc, nil
}

// escapeLike escapes LIKE metacharacters in a user-supplied prefix.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
