// Package memory implementa los repositorios en memoria. Sirve para desarrollo local y tests:
// un mutex global serializa las transacciones y un snapshot permite revertirlas.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/tienda-api/internal/application/ports"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

// Store contiene todas las colecciones.
type Store struct {
	mu   sync.Mutex
	data *tables
}

type tables struct {
	seq        int64
	users      map[string]*entity.User
	products   map[string]*entity.Product
	categories map[string]*entity.Category
	orders     map[string]*entity.Order
	order      map[string]int64 // id -> secuencia de inserción
}

func newTables() *tables {
	return &tables{
		users:      make(map[string]*entity.User),
		products:   make(map[string]*entity.Product),
		categories: make(map[string]*entity.Category),
		orders:     make(map[string]*entity.Order),
		order:      make(map[string]int64),
	}
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: newTables()}
}

// Repositories devuelve repositorios fuera de transacción: cada llamada toma el mutex.
func (s *Store) Repositories() repository.Set {
	return s.set(false)
}

// Run ejecuta fn con el mutex tomado durante toda la transacción; si fn falla (o entra en pánico)
// el estado vuelve al snapshot previo.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Set) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	committed := false
	defer func() {
		if !committed {
			s.data = snapshot
		}
	}()

	if err := fn(ctx, s.set(true)); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) set(inTx bool) repository.Set {
	return repository.Set{
		Users:      &UserRepo{s: s, inTx: inTx},
		Products:   &ProductRepo{s: s, inTx: inTx},
		Categories: &CategoryRepo{s: s, inTx: inTx},
		Orders:     &OrderRepo{s: s, inTx: inTx},
	}
}

// lock toma el mutex salvo que la llamada ocurra dentro de Run, que ya lo tiene.
func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (t *tables) nextSeq(id string) {
	t.seq++
	t.order[id] = t.seq
}

func (t *tables) clone() *tables {
	c := newTables()
	c.seq = t.seq
	for k, v := range t.users {
		c.users[k] = cloneUser(v)
	}
	for k, v := range t.products {
		c.products[k] = cloneProduct(v)
	}
	for k, v := range t.categories {
		c.categories[k] = cloneCategory(v)
	}
	for k, v := range t.orders {
		c.orders[k] = cloneOrder(v)
	}
	for k, v := range t.order {
		c.order[k] = v
	}
	return c
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.OrderIDs = append([]string{}, u.OrderIDs...)
	return &c
}

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	return &c
}

func cloneCategory(cat *entity.Category) *entity.Category {
	c := *cat
	c.ProductIDs = append([]string{}, cat.ProductIDs...)
	return &c
}

func cloneOrder(o *entity.Order) *entity.Order {
	c := *o
	c.Items = append([]entity.OrderItem{}, o.Items...)
	return &c
}

func removeID(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func appendUnique(ids []string, id string) []string {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}
