package repository

// Set agrupa los repositorios atados a un mismo alcance (pool o transacción).
type Set struct {
	Users      UserRepository
	Products   ProductRepository
	Categories CategoryRepository
	Orders     OrderRepository
}
