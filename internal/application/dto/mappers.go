package dto

import "github.com/jhoicas/tienda-api/internal/domain/entity"

// NewUserResponse mapea la entidad a su salida HTTP.
func NewUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	orders := u.OrderIDs
	if orders == nil {
		orders = []string{}
	}
	return &UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Address:    u.Address,
		City:       u.City,
		PostalCode: u.PostalCode,
		State:      u.State,
		FirebaseID: u.FirebaseID,
		Image:      u.Image,
		Orders:     orders,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// NewProductResponse mapea la entidad a su salida HTTP.
func NewProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Image:         p.Image,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// NewCategoryResponse mapea la categoría con los productos ya cargados.
func NewCategoryResponse(c *entity.Category, products []*entity.Product) *CategoryResponse {
	if c == nil {
		return nil
	}
	out := &CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Image:     c.Image,
		Products:  make([]ProductResponse, 0, len(products)),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	for _, p := range products {
		out.Products = append(out.Products, *NewProductResponse(p))
	}
	return out
}

// NewOrderResponse mapea la orden. user y products son opcionales (orden poblada).
func NewOrderResponse(o *entity.Order, user *entity.User, products map[string]*entity.Product) *OrderResponse {
	if o == nil {
		return nil
	}
	out := &OrderResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		User:        NewUserResponse(user),
		Products:    make([]OrderItemResponse, 0, len(o.Items)),
		OrderAmount: o.OrderAmount,
		Status:      o.Status,
		OrderedAt:   o.OrderedAt,
		ShippedAt:   o.ShippedAt,
		DeliveredAt: o.DeliveredAt,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
	for _, it := range o.Items {
		out.Products = append(out.Products, OrderItemResponse{
			ProductID: it.ProductID,
			Product:   NewProductResponse(products[it.ProductID]),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     it.Total,
		})
	}
	return out
}
