package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state stored in pedidos.estado.
type Status string

const (
	StatusPending   Status = "pendiente"
	StatusPaid      Status = "pagado"
	StatusShipped   Status = "enviado"
	StatusDelivered Status = "entregado"
	StatusCancelled Status = "cancelado"
)

var statusLabels = map[Status]string{
	StatusPending:   "Pendiente",
	StatusPaid:      "Pagado",
	StatusShipped:   "Enviado",
	StatusDelivered: "Entregado",
	StatusCancelled: "Cancelado",
}

// Statuses lists every status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled}
}

// ParseStatus validates a stored or submitted status value.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := statusLabels[st]; !ok {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}

// Label is the display name of the status.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Line is one product of an order at the price paid.
type Line struct {
	ProductID int64
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal is UnitPrice × Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is a placed order. CustomerName is only filled in admin listings.
type Order struct {
	ID           int64
	Reference    string
	UserID       int64
	CustomerName string
	Total        decimal.Decimal
	Status       Status
	CreatedAt    time.Time
	Lines        []Line
}

// NewOrder builds a pending order from the purchased lines, with a fresh
// reference and the total computed from the lines.
func NewOrder(userID int64, lines []Line) (*Order, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("an order needs at least one line")
	}
	total := decimal.Zero
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("line for product %d has quantity %d", l.ProductID, l.Quantity)
		}
		total = total.Add(l.Subtotal())
	}
	return &Order{
		Reference: uuid.NewString(),
		UserID:    userID,
		Total:     total.Round(2),
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
		Lines:     lines,
	}, nil
}

// ItemCount sums the line quantities.
func (o *Order) ItemCount() int64 {
	var n int64
	for _, l := range o.Lines {
		n += int64(l.Quantity)
	}
	return n
}
