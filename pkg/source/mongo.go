package source

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"perimeleon/pmexport/pkg/config"
	"perimeleon/pmexport/pkg/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoSource reads household documents from a MongoDB collection.
type MongoSource struct {
	client     *mongo.Client
	collection *mongo.Collection
	target     string
	logger     *slog.Logger
}

// NewMongoSource connects to MongoDB and pings the server. A failed connect
// or ping is returned as *model.ConnectionError.
func NewMongoSource(ctx context.Context, cfg *config.MongoConfig, timeout time.Duration) (*MongoSource, error) {
	logger := slog.Default().With("component", "source.mongo")
	opts, target := mongoClientOptions(cfg, timeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, model.NewConnectionError("mongo", target, err)
	}

	s := &MongoSource{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		target:     target,
		logger:     logger,
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.Ping(pingCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("MongoDB source connected",
		"target", target,
		"database", cfg.Database,
		"collection", cfg.Collection,
	)
	return s, nil
}

// mongoClientOptions builds client options and a credential-free target
// description for errors and logs.
func mongoClientOptions(cfg *config.MongoConfig, timeout time.Duration) (*options.ClientOptions, string) {
	opts := options.Client().
		SetServerSelectionTimeout(timeout).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentMap: true})

	if cfg.URI != "" {
		return opts.ApplyURI(cfg.URI), redactURI(cfg.URI)
	}

	host := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	opts.SetHosts([]string{host})
	if cfg.Username != "" {
		opts.SetAuth(options.Credential{
			Username:   cfg.Username,
			Password:   cfg.Password,
			AuthSource: cfg.AuthSource,
		})
	}
	return opts, host
}

// Name implements Source.
func (s *MongoSource) Name() string { return "mongo" }

// Query implements Source. The members projection is applied by the server.
func (s *MongoSource) Query(ctx context.Context, p Projection) (Cursor, error) {
	findOpts := options.Find()
	if keys := p.Keys(); keys != nil {
		projection := bson.D{}
		for _, k := range keys {
			projection = append(projection, bson.E{Key: k, Value: 1})
		}
		findOpts.SetProjection(projection)
	}

	cur, err := s.collection.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo find on %s: %w", s.collection.Name(), err)
	}
	return &mongoCursor{cur: cur}, nil
}

// Ping implements Source.
func (s *MongoSource) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return model.NewConnectionError("mongo", s.target, err)
	}
	return nil
}

// Close implements Source.
func (s *MongoSource) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo disconnect: %w", err)
	}
	s.logger.Debug("MongoDB source closed")
	return nil
}

type mongoCursor struct {
	cur    *mongo.Cursor
	record model.RawRecord
	err    error
}

func (c *mongoCursor) Next(ctx context.Context) bool {
	if c.err != nil || !c.cur.Next(ctx) {
		return false
	}
	var doc bson.M
	if err := c.cur.Decode(&doc); err != nil {
		c.err = fmt.Errorf("mongo decode: %w", err)
		return false
	}
	c.record = normalizeRecord(doc)
	return true
}

func (c *mongoCursor) Record() model.RawRecord { return c.record }

func (c *mongoCursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.cur.Err()
}

func (c *mongoCursor) Close(ctx context.Context) error {
	return c.cur.Close(ctx)
}
