// Package mongodb implementa los repositorios sobre MongoDB. Las referencias entre documentos
// (category.products, user.orders) se mantienen con $addToSet/$pull dentro de transacciones
// multi-documento, que requieren un replica set.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jhoicas/tienda-api/pkg/config"
)

// Nombres de colecciones.
const (
	collUsers      = "users"
	collProducts   = "products"
	collCategories = "categories"
	collOrders     = "orders"
)

// Connect abre el cliente y verifica la conexión.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(10 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("conectar mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// EnsureIndexes crea los índices únicos y de consulta. Es idempotente.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		collUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("users_email_key")},
			{Keys: bson.D{{Key: "firebaseId", Value: 1}}, Options: options.Index().SetUnique(true).SetName("users_firebase_id_key")},
		},
		collCategories: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true).SetName("categories_name_key")},
		},
		collProducts: {
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "price", Value: 1}}},
			{Keys: bson.D{{Key: "price", Value: 1}}},
		},
		collOrders: {
			{Keys: bson.D{{Key: "user", Value: 1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("índices de %s: %w", coll, err)
		}
	}
	return nil
}
