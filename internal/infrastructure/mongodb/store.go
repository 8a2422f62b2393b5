package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/jhoicas/tienda-api/internal/application/ports"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

// Store agrupa las colecciones y ejecuta transacciones con sesiones del cliente.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore construye el almacén sobre la base de datos indicada.
func NewStore(client *mongo.Client, database string) *Store {
	return &Store{client: client, db: client.Database(database)}
}

// Database expone la base de datos (índices, health check).
func (s *Store) Database() *mongo.Database {
	return s.db
}

// Repositories devuelve los repositorios. Son los mismos dentro y fuera de una transacción:
// la sesión viaja en el contexto.
func (s *Store) Repositories() repository.Set {
	return repository.Set{
		Users:      &UserRepo{s: s},
		Products:   &ProductRepo{s: s},
		Categories: &CategoryRepo{s: s},
		Orders:     &OrderRepo{s: s},
	}
}

// Run ejecuta fn en una transacción multi-documento. El driver reintenta fn ante
// TransientTransactionError, así que fn no debe tener efectos fuera del almacén.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Set) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("iniciar sesión: %w", err)
	}
	defer sess.EndSession(ctx)

	txOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())
	repos := s.Repositories()
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, repos)
	}, txOpts)
	return err
}

func (s *Store) users() *mongo.Collection      { return s.db.Collection(collUsers) }
func (s *Store) products() *mongo.Collection   { return s.db.Collection(collProducts) }
func (s *Store) categories() *mongo.Collection { return s.db.Collection(collCategories) }
func (s *Store) orders() *mongo.Collection     { return s.db.Collection(collOrders) }
