package staff

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name" validate:"required"`
	Role        string          `json:"role" validate:"required"`
	MonthlyGoal decimal.Decimal `json:"monthly_goal" validate:"gte=0"`
	Commission  decimal.Decimal `json:"commission" validate:"gte=0,lte=100"`
	HiredAt     time.Time       `json:"hired_at"`
}

func (e *Employee) SetID(id string) { e.ID = id }

// Performance is an employee's standing for the current calendar month.
type Performance struct {
	EmployeeID string          `json:"employee_id"`
	Name       string          `json:"name"`
	SalesTotal decimal.Decimal `json:"sales_total"`
	SalesCount int             `json:"sales_count"`
	// GoalPercent is SalesTotal as a percentage of the monthly goal, 0 without a goal.
	GoalPercent decimal.Decimal `json:"goal_percent"`
	Commission  decimal.Decimal `json:"commission"`
}

type Supplier struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"name" validate:"required"`
	Contact      string    `json:"contact"`
	Email        string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Rating       int       `json:"rating" validate:"min=1,max=5"`
	RegisteredAt time.Time `json:"registered_at"`
}

func (s *Supplier) SetID(id string) { s.ID = id }
