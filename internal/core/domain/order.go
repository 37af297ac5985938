package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusShipped   OrderStatus = "Shipped"
	StatusDelivered OrderStatus = "Delivered"
	StatusCancelled OrderStatus = "Cancelled"
)

// Valid reports whether s is one of the four order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"
	PaymentOnline PaymentMethod = "Online"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCOD || m == PaymentOnline
}

// OrderItem is a frozen, by-value copy of a cart line taken at order
// creation. Later catalog edits or deletions never alter it.
type OrderItem struct {
	OrderID      int64
	ProductID    int64
	ProductName  string
	ProductImage string
	Price        Amount
	Quantity     int
}

// Order is the immutable record created from a cart snapshot at
// checkout. Only Status changes afterwards; Total and Items never do.
type Order struct {
	ID            int64
	UserID        string
	Total         Amount
	Status        OrderStatus
	PaymentMethod PaymentMethod
	Address       string
	CreatedAt     time.Time
	Items         []OrderItem
}

// NewOrder snapshots the cart lines into a pending order for userID.
// The total is taken from the pricing calculator over the same lines.
func NewOrder(userID string, lines []CartLine, method PaymentMethod, address string) Order {
	items := make([]OrderItem, 0, len(lines))
	priced := make([]PricedLine, 0, len(lines))
	for _, l := range lines {
		items = append(items, OrderItem{
			ProductID:    l.Product.ID,
			ProductName:  l.Product.Name,
			ProductImage: l.Product.Image,
			Price:        l.Product.Price,
			Quantity:     l.Quantity,
		})
		priced = append(priced, PricedLine{UnitPrice: l.Product.Price, Quantity: l.Quantity})
	}
	return Order{
		UserID:        userID,
		Total:         Quote(priced).GrandTotal,
		Status:        StatusPending,
		PaymentMethod: method,
		Address:       address,
		CreatedAt:     time.Now(),
		Items:         items,
	}
}

// CancellableBy reports whether actor may cancel the order through the
// ordinary-user surface: the owner (or an admin) while it is still
// pending. Admins can always reach any status through the status
// override instead.
func (o Order) CancellableBy(actor *Actor) bool {
	if actor == nil {
		return false
	}
	if !actor.Admin && o.UserID != actor.ID {
		return false
	}
	return o.Status == StatusPending
}
