package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Error kinds reported by the record store gateways.
var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrNotFound     = errors.New("record not found")
	ErrConnection   = errors.New("store unreachable")
)

// ConnectPostgres opens a pool and pings it, since sql.Open does not dial.
func ConnectPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return db, nil
}

func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}

	return client, nil
}

func NewPostgresHandle(dsn string) *Handle[*sql.DB] {
	return NewHandle(func(ctx context.Context) (*sql.DB, error) {
		return ConnectPostgres(ctx, dsn)
	}, (*sql.DB).Close)
}

func NewMongoHandle(uri string) *Handle[*mongo.Client] {
	return NewHandle(func(ctx context.Context) (*mongo.Client, error) {
		return ConnectMongo(ctx, uri)
	}, func(c *mongo.Client) error {
		return c.Disconnect(context.Background())
	})
}
