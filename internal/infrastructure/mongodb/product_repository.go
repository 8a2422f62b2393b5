package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en la colección products.
type ProductRepo struct {
	s *Store
}

func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	doc, err := newProductDoc(product)
	if err != nil {
		return domain.NewValidationError(err.Error())
	}
	if _, err := r.s.products().InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.decodeOne(r.s.products().FindOne(ctx, bson.M{"_id": id}))
}

// GetForUpdate escribe lockedAt en el documento: dentro de una transacción, otra transacción
// que toque el mismo producto recibe WriteConflict y el driver la reintenta.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	res := r.s.products().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$currentDate": bson.M{"lockedAt": true}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	return r.decodeOne(res)
}

func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	return r.find(ctx, bson.M{})
}

func (r *ProductRepo) ListByCategory(ctx context.Context, categoryID string) ([]*entity.Product, error) {
	return r.find(ctx, bson.M{"category": categoryID})
}

func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	price, err := toDecimal128(product.Price)
	if err != nil {
		return domain.NewValidationError(err.Error())
	}
	return r.update(ctx, "update product", product.ID, bson.M{"$set": bson.M{
		"name": product.Name, "price": price, "stockQuantity": product.StockQuantity,
		"description": product.Description, "updatedAt": product.UpdatedAt,
	}})
}

func (r *ProductRepo) UpdateImage(ctx context.Context, id, image string) error {
	return r.update(ctx, "update product image", id, bson.M{"$set": bson.M{"image": image, "updatedAt": time.Now()}})
}

func (r *ProductRepo) SetCategory(ctx context.Context, productID, categoryID string) error {
	return r.update(ctx, "set product category", productID, bson.M{"$set": bson.M{"category": categoryID, "updatedAt": time.Now()}})
}

// DecrementStock $inc condicionado a stockQuantity >= qty; si no coincide, se distingue el motivo.
func (r *ProductRepo) DecrementStock(ctx context.Context, productID string, qty int) error {
	if qty <= 0 {
		return domain.NewValidationError(fmt.Sprintf("cantidad a descontar inválida: %d", qty))
	}
	res, err := r.s.products().UpdateOne(ctx,
		bson.M{"_id": productID, "stockQuantity": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stockQuantity": -qty}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	p, err := r.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrProductNotFound
	}
	return &domain.InsufficientStockError{ProductID: productID, Requested: qty, Available: p.StockQuantity}
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.s.products().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepo) update(ctx context.Context, op, id string, update bson.M) error {
	res, err := r.s.products().UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// find ordena por precio ascendente y luego por nombre.
func (r *ProductRepo) find(ctx context.Context, filter bson.M) ([]*entity.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}, {Key: "name", Value: 1}})
	cur, err := r.s.products().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	list := make([]*entity.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.entity()
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, nil
}

func (r *ProductRepo) decodeOne(res *mongo.SingleResult) (*entity.Product, error) {
	var d productDoc
	if err := res.Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return d.entity()
}
