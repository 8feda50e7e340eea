package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"perimeleon/pmexport/pkg/config"
	"perimeleon/pmexport/pkg/model"

	"github.com/spf13/cast"
)

// SQLiteSource reads household documents stored as JSON text, one per row.
// Both the cgo driver ("sqlite3") and the pure Go driver ("sqlite") are
// registered; cfg.Driver selects one.
type SQLiteSource struct {
	db     *sql.DB
	query  string
	path   string
	logger *slog.Logger
}

// NewSQLiteSource opens the database read-only and verifies the table can be
// queried.
func NewSQLiteSource(ctx context.Context, cfg *config.SQLiteConfig) (*SQLiteSource, error) {
	logger := slog.Default().With("component", "source.sqlite")

	db, err := sql.Open(cfg.Driver, sqliteDSN(cfg.Driver, cfg.Path))
	if err != nil {
		return nil, model.NewConnectionError("sqlite", cfg.Path, err)
	}

	s := &SQLiteSource{
		db:     db,
		query:  documentQuery(cfg.Table, cfg.IDColumn, cfg.DocumentColumn),
		path:   cfg.Path,
		logger: logger,
	}
	if err := s.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite source opened",
		"path", cfg.Path,
		"driver", cfg.Driver,
		"table", cfg.Table,
	)
	return s, nil
}

// sqliteDSN opens the file read-only. The two drivers spell the mode
// parameter the same way but only the cgo driver requires the file: prefix.
func sqliteDSN(driver, path string) string {
	if driver == "sqlite3" {
		return "file:" + path + "?mode=ro"
	}
	return "file:" + path + "?mode=ro&_pragma=busy_timeout(5000)"
}

// documentQuery builds the row query. Identifiers are validated by config.
func documentQuery(table, idColumn, docColumn string) string {
	return fmt.Sprintf("SELECT %s, %s FROM %s ORDER BY %s",
		quoteIdent(idColumn), quoteIdent(docColumn), quoteIdent(table), quoteIdent(idColumn))
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Name implements Source.
func (s *SQLiteSource) Name() string { return "sqlite" }

// Query implements Source. The projection is applied after decoding.
func (s *SQLiteSource) Query(ctx context.Context, p Projection) (Cursor, error) {
	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("sqlite query: %w", err)
	}
	return &rowsCursor{rows: rows, projection: p}, nil
}

// Ping implements Source. It runs the document query with LIMIT 0 so a
// missing table is reported along with an unreadable file.
func (s *SQLiteSource) Ping(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, s.query+" LIMIT 0")
	if err != nil {
		return model.NewConnectionError("sqlite", s.path, err)
	}
	return rows.Close()
}

// Close implements Source.
func (s *SQLiteSource) Close(context.Context) error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("sqlite close: %w", err)
	}
	s.logger.Debug("SQLite source closed")
	return nil
}

// rowsCursor reads (id, document) rows from database/sql.
type rowsCursor struct {
	rows       *sql.Rows
	projection Projection
	record     model.RawRecord
	err        error
}

func (c *rowsCursor) Next(ctx context.Context) bool {
	if c.err != nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		c.err = err
		return false
	}
	if !c.rows.Next() {
		return false
	}

	var id any
	var doc []byte
	if err := c.rows.Scan(&id, &doc); err != nil {
		c.err = fmt.Errorf("sqlite scan: %w", err)
		return false
	}
	record, err := decodeDocument(doc, cast.ToString(id))
	if err != nil {
		c.err = err
		return false
	}
	c.record = Project(record, c.projection)
	return true
}

func (c *rowsCursor) Record() model.RawRecord { return c.record }

func (c *rowsCursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.rows.Err()
}

func (c *rowsCursor) Close(context.Context) error { return c.rows.Close() }

// decodeDocument parses one JSON document and fills in its native id.
func decodeDocument(doc []byte, id string) (model.RawRecord, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, fmt.Errorf("document %s is not a JSON object: %w", id, err)
	}
	return withNativeID(normalizeRecord(m), id), nil
}
