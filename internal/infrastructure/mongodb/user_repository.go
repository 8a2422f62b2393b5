package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en la colección users.
type UserRepo struct {
	s *Store
}

func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	if _, err := r.s.users().InsertOne(ctx, newUserDoc(user)); err != nil {
		return mapUserDuplicate(err, "insert user")
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepo) GetByFirebaseID(ctx context.Context, firebaseID string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"firebaseId": firebaseID})
}

func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.s.users().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	list := make([]*entity.User, 0, len(docs))
	for _, d := range docs {
		list = append(list, d.entity())
	}
	return list, nil
}

func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	update := bson.M{"$set": bson.M{
		"name": user.Name, "email": user.Email, "phone": user.Phone, "address": user.Address,
		"city": user.City, "pin": user.PostalCode, "state": user.State, "updatedAt": user.UpdatedAt,
	}}
	res, err := r.s.users().UpdateByID(ctx, user.ID, update)
	if err != nil {
		return mapUserDuplicate(err, "update user")
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) UpdateImage(ctx context.Context, id, image string) error {
	return r.update(ctx, "update user image", id, bson.M{"$set": bson.M{"image": image, "updatedAt": time.Now()}})
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.s.users().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// AddOrder $addToSet conserva el orden de inserción y no duplica.
func (r *UserRepo) AddOrder(ctx context.Context, userID, orderID string) error {
	return r.update(ctx, "add order to user", userID, bson.M{
		"$addToSet": bson.M{"orders": orderID},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
}

func (r *UserRepo) RemoveOrder(ctx context.Context, userID, orderID string) error {
	return r.update(ctx, "remove order from user", userID, bson.M{
		"$pull": bson.M{"orders": orderID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (r *UserRepo) update(ctx context.Context, op, id string, update bson.M) error {
	res, err := r.s.users().UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var d userDoc
	if err := r.s.users().FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return d.entity(), nil
}

func mapUserDuplicate(err error, op string) error {
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if strings.Contains(err.Error(), "users_firebase_id_key") {
		return fmt.Errorf("%w: firebaseId ya registrado", domain.ErrDuplicate)
	}
	return domain.ErrEmailAlreadyExists
}
