package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria. Email y firebaseId son únicos.
type UserRepo struct {
	s    *Store
	inTx bool
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	defer r.s.lock(r.inTx)()
	t := r.s.data
	if err := r.checkUnique(t, user); err != nil {
		return err
	}
	c := cloneUser(user)
	if c.OrderIDs == nil {
		c.OrderIDs = []string{}
	}
	t.users[user.ID] = c
	t.nextSeq(user.ID)
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.s.lock(r.inTx)()
	if u, ok := r.s.data.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, nil
}

func (r *UserRepo) GetByFirebaseID(_ context.Context, firebaseID string) (*entity.User, error) {
	defer r.s.lock(r.inTx)()
	for _, u := range r.s.data.users {
		if u.FirebaseID == firebaseID {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	defer r.s.lock(r.inTx)()
	t := r.s.data
	list := make([]*entity.User, 0, len(t.users))
	for _, u := range t.users {
		list = append(list, cloneUser(u))
	}
	sort.Slice(list, func(i, j int) bool { return t.order[list[i].ID] < t.order[list[j].ID] })
	return list, nil
}

func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	defer r.s.lock(r.inTx)()
	t := r.s.data
	cur, ok := t.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if err := r.checkUnique(t, user); err != nil {
		return err
	}
	cur.Name, cur.Email, cur.Phone = user.Name, user.Email, user.Phone
	cur.Address, cur.City, cur.PostalCode, cur.State = user.Address, user.City, user.PostalCode, user.State
	cur.UpdatedAt = user.UpdatedAt
	return nil
}

func (r *UserRepo) UpdateImage(_ context.Context, id, image string) error {
	return r.mutate(id, func(u *entity.User) { u.Image = image })
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock(r.inTx)()
	t := r.s.data
	if _, ok := t.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(t.users, id)
	delete(t.order, id)
	return nil
}

func (r *UserRepo) AddOrder(_ context.Context, userID, orderID string) error {
	return r.mutate(userID, func(u *entity.User) { u.OrderIDs = appendUnique(u.OrderIDs, orderID) })
}

func (r *UserRepo) RemoveOrder(_ context.Context, userID, orderID string) error {
	return r.mutate(userID, func(u *entity.User) { u.OrderIDs = removeID(u.OrderIDs, orderID) })
}

func (r *UserRepo) mutate(id string, fn func(u *entity.User)) error {
	defer r.s.lock(r.inTx)()
	u, ok := r.s.data.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepo) checkUnique(t *tables, user *entity.User) error {
	for id, u := range t.users {
		if id == user.ID {
			continue
		}
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
		if u.FirebaseID == user.FirebaseID {
			return fmt.Errorf("%w: firebaseId ya registrado", domain.ErrDuplicate)
		}
	}
	return nil
}
