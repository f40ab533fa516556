package sales

import (
	"time"

	"github.com/shopspring/decimal"

	"api_retail/internal/auth"
)

// Sale is an immutable point-of-sale record. UnitPrice is the product's sale
// price at the moment the stock was taken.
type Sale struct {
	ID          string          `json:"id,omitempty"`
	ProductID   string          `json:"product_id" validate:"required"`
	ProductName string          `json:"product_name" validate:"required"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"gte=0"`
	Total       decimal.Decimal `json:"total" validate:"gte=0"`
	Date        time.Time       `json:"date" validate:"required"`
	Seller      auth.Role       `json:"seller" validate:"oneof=admin staff"`
	EmployeeID  string          `json:"employee_id,omitempty"`
}

func (s *Sale) SetID(id string) { s.ID = id }

// SaleRequest is what a seller submits at the counter.
type SaleRequest struct {
	ProductID  string    `json:"product_id"`
	Quantity   int       `json:"quantity"`
	Seller     auth.Role `json:"-"`
	EmployeeID string    `json:"employee_id,omitempty"`
}
