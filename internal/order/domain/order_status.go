package domain

import (
	"fmt"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
	StatusFailed    OrderStatus = "FAILED"
)

// transitions es la tabla de cambios de estado permitidos. Los estados finales no tienen salida.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusFailed, StatusCancelled},
	StatusConfirmed: {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusDelivered: nil,
	StatusCancelled: nil,
	StatusFailed:    nil,
}

// ParseOrderStatus valida un estado recibido desde fuera (HTTP, base de datos).
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := transitions[status]; !ok {
		return "", sharedDomain.NewValidationError(fmt.Sprintf("Invalid order status: %s", s), "status", s)
	}
	return status, nil
}

func (s OrderStatus) String() string { return string(s) }

// CanTransitionTo indica si la tabla permite pasar de s a next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusFailed
}

// HoldsStock indica si el pedido ya tiene stock descontado.
func (s OrderStatus) HoldsStock() bool {
	return s == StatusConfirmed || s == StatusPaid || s == StatusShipped
}
