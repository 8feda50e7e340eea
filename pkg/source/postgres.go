package source

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"perimeleon/pmexport/pkg/config"
	"perimeleon/pmexport/pkg/model"
)

// PostgresSource reads household documents from a JSONB column.
type PostgresSource struct {
	db     *sql.DB
	table  string
	idCol  string
	docCol string
	target string
	logger *slog.Logger
}

// NewPostgresSource opens a pool through the pgx database/sql driver and
// pings the server.
func NewPostgresSource(ctx context.Context, cfg *config.PostgresConfig, timeout time.Duration) (*PostgresSource, error) {
	logger := slog.Default().With("component", "source.postgres")
	dsn := postgresDSN(cfg)
	target := redactURI(dsn)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, model.NewConnectionError("postgres", target, err)
	}
	db.SetMaxOpenConns(int(cfg.MaxConns))

	s := &PostgresSource{
		db:     db,
		table:  cfg.Table,
		idCol:  cfg.IDColumn,
		docCol: cfg.DocumentColumn,
		target: target,
		logger: logger,
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.Ping(pingCtx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("PostgreSQL source connected", "target", target, "table", cfg.Table)
	return s, nil
}

// postgresDSN returns cfg.DSN or a URL built from the discrete fields.
func postgresDSN(cfg *config.PostgresConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Database,
		RawQuery: url.Values{"sslmode": {cfg.SSLMode}}.Encode(),
	}
	if cfg.User != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
	}
	return u.String()
}

// postgresQuery selects the id and document as text. The members projection
// is built server side with jsonb_build_object.
func postgresQuery(table, idCol, docCol string, p Projection) string {
	doc := quoteIdent(docCol)
	if keys := p.Keys(); keys != nil {
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("'%s', %s->'%s'", k, doc, k))
		}
		doc = "jsonb_strip_nulls(jsonb_build_object(" + strings.Join(pairs, ", ") + "))"
	}
	return fmt.Sprintf("SELECT %s::text, %s::text FROM %s ORDER BY %s",
		quoteIdent(idCol), doc, quoteIdent(table), quoteIdent(idCol))
}

// Name implements Source.
func (s *PostgresSource) Name() string { return "postgres" }

// Query implements Source.
func (s *PostgresSource) Query(ctx context.Context, p Projection) (Cursor, error) {
	rows, err := s.db.QueryContext(ctx, postgresQuery(s.table, s.idCol, s.docCol, p))
	if err != nil {
		return nil, fmt.Errorf("postgres query: %w", err)
	}
	return &rowsCursor{rows: rows, projection: p}, nil
}

// Ping implements Source.
func (s *PostgresSource) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return model.NewConnectionError("postgres", s.target, err)
	}
	return nil
}

// Close implements Source.
func (s *PostgresSource) Close(context.Context) error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("postgres close: %w", err)
	}
	s.logger.Debug("PostgreSQL source closed")
	return nil
}
