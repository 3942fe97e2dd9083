package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	ItemsCollection          = "items"
	CategoriesCollection     = "categories"
	TagsCollection           = "tags"
	InquiriesCollection      = "inquiries"
	MessagesCollection       = "inquiry_messages"
	UsersCollection          = "users"
	SettingsCollection       = "settings"
	EmailTemplatesCollection = "email_templates"
	APIEndpointsCollection   = "api_endpoints_config"
)

// ConnectDB opens a client, pings the primary and returns the named database.
func ConnectDB(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	defer cancelPing()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Printf("connected to MongoDB database %q", dbName)
	return client, client.Database(dbName), nil
}

// DisconnectDB closes the client. A nil client is a no-op.
func DisconnectDB(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	log.Println("MongoDB connection closed")
	return nil
}

// Document is anything stored under a generated SixID primary key.
type Document interface {
	GenID()
	GenIDIfEmpty()
}

// InsertOne stores doc, drawing a fresh id whenever the previous one collided.
// Collisions on other unique indexes are returned to the caller untouched.
func InsertOne(ctx context.Context, coll *mongo.Collection, doc Document) error {
	first := true
	return WithRetries(func() error {
		if first {
			doc.GenIDIfEmpty()
			first = false
		} else {
			doc.GenID()
		}
		_, err := coll.InsertOne(ctx, doc)
		return err
	}, DefaultMaxRetries, IsDuplicateIDError)
}
