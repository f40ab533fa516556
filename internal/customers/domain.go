package customers

import (
	"fmt"
	"time"

	"api_retail/internal/apperr"
)

// Tier is the loyalty level derived from a customer's points.
type Tier string

const (
	Bronze Tier = "Bronze"
	Silver Tier = "Silver"
	Gold   Tier = "Gold"
	VIP    Tier = "VIP"
)

// Lower bounds of each tier, inclusive.
const (
	SilverPoints = 100
	GoldPoints   = 500
	VIPPoints    = 1000
)

// TierFor maps points to a tier. Tiers are never stored.
func TierFor(points int) Tier {
	switch {
	case points >= VIPPoints:
		return VIP
	case points >= GoldPoints:
		return Gold
	case points >= SilverPoints:
		return Silver
	default:
		return Bronze
	}
}

type Customer struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"name" validate:"required"`
	Phone        string    `json:"phone" validate:"required"`
	Email        string    `json:"email,omitempty" validate:"omitempty,email"`
	Points       int       `json:"points" validate:"gte=0"`
	RegisteredAt time.Time `json:"registered_at"`
}

func (c *Customer) SetID(id string) { c.ID = id }

// View is a customer as shown to callers, with its tier.
type View struct {
	Customer
	Tier Tier `json:"tier"`
}

func NewView(c Customer) View {
	return View{Customer: c, Tier: TierFor(c.Points)}
}

// Segment selects customers for a campaign.
type Segment string

const (
	SegmentAll    Segment = "all"
	SegmentVIP    Segment = "vip"
	SegmentGold   Segment = "gold"
	SegmentSilver Segment = "silver"
)

// ParseSegment accepts the four campaign segments; empty means all.
func ParseSegment(value string) (Segment, error) {
	switch s := Segment(value); s {
	case "":
		return SegmentAll, nil
	case SegmentAll, SegmentVIP, SegmentGold, SegmentSilver:
		return s, nil
	default:
		return "", apperr.Validation("segment", fmt.Sprintf("unknown segment %q", value))
	}
}

// Matches reports whether a customer with points belongs to the segment.
// Each named segment is exactly its own tier band.
func (s Segment) Matches(points int) bool {
	switch s {
	case SegmentAll:
		return true
	case SegmentVIP:
		return TierFor(points) == VIP
	case SegmentGold:
		return TierFor(points) == Gold
	case SegmentSilver:
		return TierFor(points) == Silver
	default:
		return false
	}
}
