package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const connectTimeout = 10 * time.Second

// DB struct
type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// ConnectToMongo func
func ConnectToMongo(ctx context.Context, uri, database string) (*DB, error) {
	if uri == "" || database == "" {
		return nil, errors.New("mongodb uri and database are required")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	logrus.WithField("database", database).Info("Connected with mongodb")
	return &DB{Client: client, Database: client.Database(database)}, nil
}

// Ping checks the server is reachable
func (d *DB) Ping(ctx context.Context) error {
	return d.Client.Ping(ctx, nil)
}

// Close func
func (d *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := d.Client.Disconnect(ctx); err != nil {
		logrus.Error(err)
		return err
	}
	logrus.Println("Connected with mongodb has closed")
	return nil
}
