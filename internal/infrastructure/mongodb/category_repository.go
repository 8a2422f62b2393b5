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

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo categorías en la colección categories.
type CategoryRepo struct {
	s *Store
}

func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	doc := newCategoryDoc(category)
	doc.Products = []string{}
	if _, err := r.s.categories().InsertOne(ctx, doc); err != nil {
		return mapCategoryDuplicate(err, category.Name, "insert category")
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var d categoryDoc
	if err := r.s.categories().FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return d.entity(), nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	cur, err := r.s.categories().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	list := make([]*entity.Category, 0, len(docs))
	for _, d := range docs {
		list = append(list, d.entity())
	}
	return list, nil
}

func (r *CategoryRepo) Rename(ctx context.Context, id, name string) error {
	res, err := r.s.categories().UpdateByID(ctx, id, bson.M{"$set": bson.M{"name": name, "updatedAt": time.Now()}})
	if err != nil {
		return mapCategoryDuplicate(err, name, "rename category")
	}
	if res.MatchedCount == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepo) UpdateImage(ctx context.Context, id, image string) error {
	return r.update(ctx, "update category image", id, bson.M{"$set": bson.M{"image": image, "updatedAt": time.Now()}})
}

// Delete rechaza la eliminación si algún producto todavía referencia la categoría.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	n, err := r.s.products().CountDocuments(ctx, bson.M{"category": id}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("count category products: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: la categoría %s tiene productos", domain.ErrCategoryNotEmpty, id)
	}
	res, err := r.s.categories().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepo) AddProduct(ctx context.Context, categoryID, productID string) error {
	return r.update(ctx, "add product to category", categoryID, bson.M{
		"$addToSet": bson.M{"products": productID},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
}

func (r *CategoryRepo) RemoveProduct(ctx context.Context, categoryID, productID string) error {
	return r.update(ctx, "remove product from category", categoryID, bson.M{
		"$pull": bson.M{"products": productID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (r *CategoryRepo) update(ctx context.Context, op, id string, update bson.M) error {
	res, err := r.s.categories().UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func mapCategoryDuplicate(err error, name, op string) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: ya existe una categoría llamada %q", domain.ErrDuplicate, name)
	}
	return fmt.Errorf("%s: %w", op, err)
}
