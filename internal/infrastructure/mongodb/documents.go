package mongodb

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

type userDoc struct {
	ID         string    `bson:"_id"`
	Name       string    `bson:"name"`
	Email      string    `bson:"email"`
	Phone      string    `bson:"phone"`
	Address    string    `bson:"address"`
	City       string    `bson:"city"`
	PostalCode string    `bson:"pin"`
	State      string    `bson:"state"`
	FirebaseID string    `bson:"firebaseId"`
	Image      string    `bson:"image"`
	Orders     []string  `bson:"orders"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

type productDoc struct {
	ID            string               `bson:"_id"`
	Name          string               `bson:"name"`
	Image         string               `bson:"image"`
	Price         primitive.Decimal128 `bson:"price"`
	StockQuantity int                  `bson:"stockQuantity"`
	Description   string               `bson:"description"`
	Category      string               `bson:"category"`
	CreatedAt     time.Time            `bson:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt"`
}

type categoryDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Image     string    `bson:"image"`
	Products  []string  `bson:"products"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type orderItemDoc struct {
	Product   string               `bson:"product"`
	Quantity  int                  `bson:"quantity"`
	UnitPrice primitive.Decimal128 `bson:"unitPrice"`
	Total     primitive.Decimal128 `bson:"total"`
}

type orderDoc struct {
	ID          string               `bson:"_id"`
	User        string               `bson:"user"`
	Products    []orderItemDoc       `bson:"products"`
	OrderAmount primitive.Decimal128 `bson:"orderAmount"`
	Status      string               `bson:"status"`
	OrderedAt   string               `bson:"orderedAt"`
	ShippedAt   string               `bson:"shippedAt"`
	DeliveredAt string               `bson:"deliveredAt"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("decimal %s fuera de rango: %w", d.String(), err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("decimal128 inválido %s: %w", v.String(), err)
	}
	return d, nil
}

func newUserDoc(u *entity.User) userDoc {
	orders := u.OrderIDs
	if orders == nil {
		orders = []string{}
	}
	return userDoc{
		ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Address: u.Address,
		City: u.City, PostalCode: u.PostalCode, State: u.State, FirebaseID: u.FirebaseID,
		Image: u.Image, Orders: orders, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

func (d userDoc) entity() *entity.User {
	orders := d.Orders
	if orders == nil {
		orders = []string{}
	}
	return &entity.User{
		ID: d.ID, Name: d.Name, Email: d.Email, Phone: d.Phone, Address: d.Address,
		City: d.City, PostalCode: d.PostalCode, State: d.State, FirebaseID: d.FirebaseID,
		Image: d.Image, OrderIDs: orders, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

func newProductDoc(p *entity.Product) (productDoc, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return productDoc{}, err
	}
	return productDoc{
		ID: p.ID, Name: p.Name, Image: p.Image, Price: price, StockQuantity: p.StockQuantity,
		Description: p.Description, Category: p.CategoryID, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}, nil
}

func (d productDoc) entity() (*entity.Product, error) {
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return nil, err
	}
	return &entity.Product{
		ID: d.ID, Name: d.Name, Image: d.Image, Price: price, StockQuantity: d.StockQuantity,
		Description: d.Description, CategoryID: d.Category, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}, nil
}

func newCategoryDoc(c *entity.Category) categoryDoc {
	products := c.ProductIDs
	if products == nil {
		products = []string{}
	}
	return categoryDoc{
		ID: c.ID, Name: c.Name, Image: c.Image, Products: products,
		CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

func (d categoryDoc) entity() *entity.Category {
	products := d.Products
	if products == nil {
		products = []string{}
	}
	return &entity.Category{
		ID: d.ID, Name: d.Name, Image: d.Image, ProductIDs: products,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

func newOrderDoc(o *entity.Order) (orderDoc, error) {
	amount, err := toDecimal128(o.OrderAmount)
	if err != nil {
		return orderDoc{}, err
	}
	items := make([]orderItemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		unit, err := toDecimal128(it.UnitPrice)
		if err != nil {
			return orderDoc{}, err
		}
		total, err := toDecimal128(it.Total)
		if err != nil {
			return orderDoc{}, err
		}
		items = append(items, orderItemDoc{Product: it.ProductID, Quantity: it.Quantity, UnitPrice: unit, Total: total})
	}
	return orderDoc{
		ID: o.ID, User: o.UserID, Products: items, OrderAmount: amount, Status: o.Status,
		OrderedAt: o.OrderedAt, ShippedAt: o.ShippedAt, DeliveredAt: o.DeliveredAt,
		CreatedAt: o.CreatedAt, UpdatedAt: o.UpdatedAt,
	}, nil
}

func (d orderDoc) entity() (*entity.Order, error) {
	amount, err := fromDecimal128(d.OrderAmount)
	if err != nil {
		return nil, err
	}
	items := make([]entity.OrderItem, 0, len(d.Products))
	for _, it := range d.Products {
		unit, err := fromDecimal128(it.UnitPrice)
		if err != nil {
			return nil, err
		}
		total, err := fromDecimal128(it.Total)
		if err != nil {
			return nil, err
		}
		items = append(items, entity.OrderItem{ProductID: it.Product, Quantity: it.Quantity, UnitPrice: unit, Total: total})
	}
	return &entity.Order{
		ID: d.ID, UserID: d.User, Items: items, OrderAmount: amount, Status: d.Status,
		OrderedAt: d.OrderedAt, ShippedAt: d.ShippedAt, DeliveredAt: d.DeliveredAt,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}, nil
}
