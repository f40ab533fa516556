package marketing

import (
	"time"

	"github.com/shopspring/decimal"

	"api_retail/internal/customers"
)

const (
	CampaignActive = "active"
	FeedbackNew    = "new"
	EventPlanned   = "planned"
	PlanPending    = "pending"
)

// Campaign is a discount promotion aimed at one customer segment.
type Campaign struct {
	ID          string            `json:"id,omitempty"`
	Name        string            `json:"name" validate:"required"`
	Description string            `json:"description"`
	Discount    decimal.Decimal   `json:"discount" validate:"gt=0,lte=100"`
	StartDate   string            `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string            `json:"end_date" validate:"required,datetime=2006-01-02"`
	Target      customers.Segment `json:"target" validate:"oneof=all vip gold silver"`
	Status      string            `json:"status" validate:"oneof=active"`
	CreatedAt   time.Time         `json:"created_at"`
	Recipients  int               `json:"recipients" validate:"gte=0"`
	SentAt      *time.Time        `json:"sent_at,omitempty"`
}

func (c *Campaign) SetID(id string) { c.ID = id }

type Feedback struct {
	ID           string    `json:"id,omitempty"`
	CustomerName string    `json:"customer_name" validate:"required"`
	ProductID    string    `json:"product_id" validate:"required"`
	Rating       int       `json:"rating" validate:"min=1,max=5"`
	Comment      string    `json:"comment"`
	Date         time.Time `json:"date"`
	Status       string    `json:"status" validate:"oneof=new"`
}

func (f *Feedback) SetID(id string) { f.ID = id }

// Competitor is a rival store with the prices it charges, keyed by product id.
type Competitor struct {
	ID       string                     `json:"id,omitempty"`
	Name     string                     `json:"name" validate:"required"`
	Location string                     `json:"location"`
	Phone    string                     `json:"phone"`
	Prices   map[string]decimal.Decimal `json:"prices,omitempty"`
}

func (c *Competitor) SetID(id string) { c.ID = id }

// PriceAction is the direction of a suggested price change.
type PriceAction string

const (
	PriceKeep     PriceAction = "none"
	PriceReduce   PriceAction = "reduce"
	PriceIncrease PriceAction = "increase"
)

type PriceSuggestion struct {
	ProductID      string          `json:"product_id"`
	CurrentPrice   decimal.Decimal `json:"current_price"`
	AveragePrice   decimal.Decimal `json:"average_competitor_price"`
	MinimumPrice   decimal.Decimal `json:"minimum_competitor_price"`
	Action         PriceAction     `json:"action"`
	SuggestedPrice decimal.Decimal `json:"suggested_price"`
}

// SeasonalEvent is a dated occasion expected to change demand.
type SeasonalEvent struct {
	ID                string    `json:"id,omitempty"`
	Name              string    `json:"name" validate:"required"`
	Date              string    `json:"date" validate:"required,datetime=2006-01-02"`
	Category          string    `json:"category"`
	ExpectedDemand    int       `json:"expected_demand" validate:"gte=0"`
	SuggestedProducts string    `json:"suggested_products"`
	Status            string    `json:"status" validate:"oneof=planned"`
	CreatedAt         time.Time `json:"created_at"`
}

func (e *SeasonalEvent) SetID(id string) { e.ID = id }

// Timing is how close an event is.
type Timing string

const (
	TimingPast     Timing = "past"
	TimingImminent Timing = "imminent"
	TimingSoon     Timing = "soon"
	TimingFuture   Timing = "future"
)

// TimingFor classifies an event that is days away.
func TimingFor(days int) Timing {
	switch {
	case days < 0:
		return TimingPast
	case days <= 7:
		return TimingImminent
	case days <= 30:
		return TimingSoon
	default:
		return TimingFuture
	}
}

type EventView struct {
	SeasonalEvent
	DaysUntil int    `json:"days_until"`
	Timing    Timing `json:"timing"`
}

// PurchasePlan lists what to buy ahead of a seasonal event.
type PurchasePlan struct {
	ID                string    `json:"id,omitempty"`
	EventID           string    `json:"event_id" validate:"required"`
	EventName         string    `json:"event_name" validate:"required"`
	Products          []string  `json:"products"`
	SuggestedQuantity int       `json:"suggested_quantity" validate:"gte=0"`
	BuyDate           string    `json:"buy_date" validate:"required,datetime=2006-01-02"`
	Status            string    `json:"status" validate:"oneof=pending"`
	CreatedAt         time.Time `json:"created_at"`
}

func (p *PurchasePlan) SetID(id string) { p.ID = id }
