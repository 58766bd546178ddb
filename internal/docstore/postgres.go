package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"tradehub-be/internal/apperr"
	"tradehub-be/internal/logger"
	"tradehub-be/internal/retry"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const pgUniqueViolation = "23505"

const selectColumns = "SELECT id, data, version, created_at, updated_at FROM documents"

// Postgres stores every collection in one JSONB table:
//
//	documents(collection text, id text, data jsonb, version bigint,
//	          created_at timestamptz, updated_at timestamptz)
type Postgres struct {
	db    *sql.DB
	retry retry.Policy
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db, retry: retry.Default}
}

// WithRetry overrides the read retry policy.
func (p *Postgres) WithRetry(policy retry.Policy) *Postgres {
	p.retry = policy
	return p
}

func (p *Postgres) Create(ctx context.Context, collection, id string, data json.RawMessage) (Document, error) {
	if id == "" {
		id = uuid.New().String()
	}

	doc := Document{ID: id, Data: data}
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
		 RETURNING version, created_at, updated_at`,
		collection, id, string(data),
	).Scan(&doc.Version, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if dup := uniqueViolation(err); dup != nil {
			return Document{}, dup
		}
		logger.FromCtx(ctx).Error("docstore: insert failed",
			zap.String("collection", collection),
			zap.String("id", id),
			zap.Error(err),
		)
		return Document{}, apperr.Infrastructure("docstore create", err)
	}
	return doc, nil
}

func (p *Postgres) Get(ctx context.Context, collection, id string) (Document, error) {
	var doc Document
	err := retry.Do(ctx, p.retry, "docstore get", func() error {
		var raw []byte
		err := p.db.QueryRowContext(ctx, selectColumns+` WHERE collection = $1 AND id = $2`, collection, id).
			Scan(&doc.ID, &raw, &doc.Version, &doc.CreatedAt, &doc.UpdatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		doc.Data = raw
		return err
	})
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (p *Postgres) Query(ctx context.Context, collection string, q Query) (Cursor, error) {
	if err := checkQuery(q); err != nil {
		return nil, err
	}

	where, args := buildWhere(collection, q.Filters)
	query := selectColumns + " WHERE " + where + buildOrder(q.Sort)

	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	logger.FromCtx(ctx).Debug("docstore query",
		zap.String("query", query),
		zap.Any("args", args),
	)

	var rows *sql.Rows
	err := retry.Do(ctx, p.retry, "docstore query", func() error {
		var err error
		rows, err = p.db.QueryContext(ctx, query, args...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &rowsCursor{rows: rows}, nil
}

func (p *Postgres) Count(ctx context.Context, collection string, filters ...Filter) (int64, error) {
	if err := checkQuery(Query{Filters: filters}); err != nil {
		return 0, err
	}

	where, args := buildWhere(collection, filters)

	var total int64
	err := retry.Do(ctx, p.retry, "docstore count", func() error {
		return p.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents WHERE "+where, args...).Scan(&total)
	})
	return total, err
}

func (p *Postgres) Update(ctx context.Context, collection, id string, patch json.RawMessage, expectedVersion int64) (WriteResult, error) {
	var res WriteResult
	err := p.db.QueryRowContext(ctx,
		`UPDATE documents
		 SET data = data || $3::jsonb, version = version + 1, updated_at = NOW()
		 WHERE collection = $1 AND id = $2
		 RETURNING version, updated_at`,
		collection, id, string(patch),
	).Scan(&res.Version, &res.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return WriteResult{}, ErrNotFound
	}
	if dup := uniqueViolation(err); dup != nil {
		return WriteResult{}, dup
	}
	if err != nil {
		logger.FromCtx(ctx).Error("docstore: update failed",
			zap.String("collection", collection),
			zap.String("id", id),
			zap.Error(err),
		)
		return WriteResult{}, apperr.Infrastructure("docstore update", err)
	}

	res.Conflict = expectedVersion > 0 && res.Version != expectedVersion+1
	return res, nil
}

func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	result, err := p.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return apperr.Infrastructure("docstore delete", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return apperr.Infrastructure("docstore delete", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// uniqueFields names the document field behind each lookup index. Postgres
// folds index names to lower case, so camelCase fields are listed here.
var uniqueFields = map[string]string{
	"uq_users_email":        "email",
	"uq_categories_slug":    "slug",
	"uq_products_slug":      "slug",
	"uq_blog_posts_slug":    "slug",
	"uq_orders_number":      "orderNumber",
	"uq_rfqs_number":        "rfqNumber",
	"uq_shipments_tracking": "trackingNumber",
}

// uniqueViolation maps a unique index failure to a validation error. The
// primary key violation is ErrAlreadyExists; lookup indexes are named
// uq_<collection>_<field> and resolved through uniqueFields when listed.
func uniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != pgUniqueViolation {
		return nil
	}
	if pqErr.Constraint == "" || pqErr.Constraint == "documents_pkey" {
		return ErrAlreadyExists
	}
	field, ok := uniqueFields[pqErr.Constraint]
	if !ok {
		field = pqErr.Constraint
		if i := strings.LastIndex(field, "_"); i >= 0 {
			field = field[i+1:]
		}
	}
	return apperr.Validation(field, "%s is already taken", field)
}

func buildWhere(collection string, filters []Filter) (string, []any) {
	args := []any{collection}
	where := []string{"collection = $1"}

	for _, f := range filters {
		col := fmt.Sprintf("data->>'%s'", f.Field)
		if f.Field == FieldID {
			col = "id"
		}

		switch {
		case f.Op == OpIn:
			args = append(args, pq.Array(f.Values))
			where = append(where, fmt.Sprintf("%s = ANY($%d)", col, len(args)))
		case f.Value == nil:
			where = append(where, col+" IS NULL")
		default:
			args = append(args, stringify(f.Value))
			where = append(where, fmt.Sprintf("%s = $%d", col, len(args)))
		}
	}
	return strings.Join(where, " AND "), args
}

func buildOrder(sorts []Sort) string {
	if len(sorts) == 0 {
		return " ORDER BY created_at ASC, id ASC"
	}

	parts := make([]string, 0, len(sorts)+1)
	for _, s := range sorts {
		var expr string
		switch {
		case s.Field == FieldCreatedAt:
			expr = "created_at"
		case s.Field == FieldUpdatedAt:
			expr = "updated_at"
		case s.Numeric:
			expr = fmt.Sprintf("(data->>'%s')::numeric", s.Field)
		default:
			expr = fmt.Sprintf("data->>'%s'", s.Field)
		}
		if s.Desc {
			expr += " DESC"
		} else {
			expr += " ASC"
		}
		parts = append(parts, expr)
	}
	parts = append(parts, "id ASC")
	return " ORDER BY " + strings.Join(parts, ", ")
}

type rowsCursor struct {
	rows *sql.Rows
	cur  Document
	err  error
}

func (c *rowsCursor) Next() bool {
	if c.err != nil || !c.rows.Next() {
		return false
	}

	var (
		doc Document
		raw []byte
	)
	if err := c.rows.Scan(&doc.ID, &raw, &doc.Version, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		c.err = apperr.Infrastructure("docstore scan", err)
		return false
	}
	doc.Data = raw
	c.cur = doc
	return true
}

func (c *rowsCursor) Document() Document { return c.cur }

func (c *rowsCursor) Err() error {
	if c.err != nil {
		return c.err
	}
	if err := c.rows.Err(); err != nil {
		return apperr.Infrastructure("docstore rows", err)
	}
	return nil
}

func (c *rowsCursor) Close() error { return c.rows.Close() }
