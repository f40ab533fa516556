package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalogue entry with its current stock.
type Product struct {
	ID            string          `json:"id,omitempty"`
	Name          string          `json:"name" validate:"required"`
	Category      string          `json:"category" validate:"required"`
	Quantity      int             `json:"quantity" validate:"gte=0"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"gte=0"`
	SalePrice     decimal.Decimal `json:"sale_price" validate:"gte=0"`
	ExpiryDate    string          `json:"expiry_date" validate:"required,datetime=2006-01-02"`
	ImageURL      string          `json:"image_url,omitempty" validate:"omitempty,url"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (p *Product) SetID(id string) { p.ID = id }

// ReorderPoint is stored under the id of the product it applies to.
type ReorderPoint struct {
	ProductID string    `json:"product_id,omitempty"`
	Point     int       `json:"point" validate:"gte=0"`
	SetAt     time.Time `json:"set_at"`
}

func (r *ReorderPoint) SetID(id string) { r.ProductID = id }

const (
	OrderPending = "pending"
)

// PurchaseOrder is a restocking request generated for a product.
type PurchaseOrder struct {
	ID                  string    `json:"id,omitempty"`
	ProductID           string    `json:"product_id" validate:"required"`
	ProductName         string    `json:"product_name" validate:"required"`
	CurrentStock        int       `json:"current_stock" validate:"gte=0"`
	RecommendedQuantity int       `json:"recommended_quantity" validate:"gt=0"`
	Status              string    `json:"status" validate:"oneof=pending"`
	CreatedAt           time.Time `json:"created_at"`
}

func (o *PurchaseOrder) SetID(id string) { o.ID = id }
