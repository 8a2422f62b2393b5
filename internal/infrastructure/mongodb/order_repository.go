package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo órdenes en la colección orders; las líneas van embebidas en el documento.
type OrderRepo struct {
	s *Store
}

func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	doc, err := newOrderDoc(order)
	if err != nil {
		return err
	}
	if _, err := r.s.orders().InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var d orderDoc
	if err := r.s.orders().FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return d.entity()
}

func (r *OrderRepo) List(ctx context.Context) ([]*entity.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Order, error) {
	return r.find(ctx, bson.M{"user": userID})
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, order *entity.Order) error {
	res, err := r.s.orders().UpdateByID(ctx, order.ID, bson.M{"$set": bson.M{
		"status": order.Status, "shippedAt": order.ShippedAt,
		"deliveredAt": order.DeliveredAt, "updatedAt": order.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	res, err := r.s.orders().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepo) find(ctx context.Context, filter bson.M) ([]*entity.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.s.orders().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	list := make([]*entity.Order, 0, len(docs))
	for _, d := range docs {
		o, err := d.entity()
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, nil
}
