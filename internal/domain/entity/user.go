package entity

import "time"

// User representa un cliente de la tienda.
// FirebaseID es el identificador del proveedor de identidad externo; aquí solo se guarda.
type User struct {
	ID         string
	Name       string
	Email      string // único
	Phone      string
	Address    string
	City       string
	PostalCode string
	State      string
	FirebaseID string
	Image      string   // ruta devuelta por el adaptador de almacenamiento
	OrderIDs   []string // órdenes del usuario, en orden de creación
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasOrder indica si la orden está enlazada al usuario.
func (u *User) HasOrder(orderID string) bool {
	return containsID(u.OrderIDs, orderID)
}
