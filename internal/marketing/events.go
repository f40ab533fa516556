package marketing

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"api_retail/internal/apperr"
	"api_retail/internal/calendar"
)

// PlanLeadDays is how long before an event its purchases should be made.
const PlanLeadDays = 7

// UpcomingDays bounds the events Upcoming reports.
const UpcomingDays = 30

func (s *Service) CreateEvent(ctx context.Context, e SeasonalEvent) (EventView, error) {
	e.ID = ""
	e.Status = EventPlanned
	e.CreatedAt = s.now().UTC()
	created, err := s.events.Create(ctx, e)
	if err != nil {
		return EventView{}, fmt.Errorf("create seasonal event: %w", err)
	}
	return s.view(created), nil
}

// ListEvents returns every event by date with its timing.
func (s *Service) ListEvents(ctx context.Context) ([]EventView, error) {
	list, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seasonal events: %w", err)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date < list[j].Date })
	views := make([]EventView, len(list))
	for i, e := range list {
		views[i] = s.view(e)
	}
	return views, nil
}

// Upcoming returns the events due within the next UpcomingDays days.
func (s *Service) Upcoming(ctx context.Context) ([]EventView, error) {
	list, err := s.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]EventView, 0)
	for _, v := range list {
		if v.DaysUntil > 0 && v.DaysUntil <= UpcomingDays {
			out = append(out, v)
		}
	}
	return out, nil
}

// GeneratePurchasePlan records the purchases for an event, due PlanLeadDays
// before it.
func (s *Service) GeneratePurchasePlan(ctx context.Context, eventID string) (PurchasePlan, error) {
	e, err := s.events.Get(ctx, eventID)
	if err != nil {
		return PurchasePlan{}, fmt.Errorf("get seasonal event %s: %w", eventID, err)
	}
	v := s.view(e)
	if v.Timing == TimingPast {
		return PurchasePlan{}, apperr.Validation("event", "is already past")
	}
	date, err := calendar.ParseDate(e.Date, s.loc)
	if err != nil {
		return PurchasePlan{}, fmt.Errorf("parse event date: %w", err)
	}

	plan, err := s.plans.Create(ctx, PurchasePlan{
		EventID:           e.ID,
		EventName:         e.Name,
		Products:          splitProducts(e.SuggestedProducts),
		SuggestedQuantity: e.ExpectedDemand,
		BuyDate:           date.AddDate(0, 0, -PlanLeadDays).Format(calendar.DateLayout),
		Status:            PlanPending,
		CreatedAt:         s.now().UTC(),
	})
	if err != nil {
		return PurchasePlan{}, fmt.Errorf("create purchase plan: %w", err)
	}
	s.logger.Info("purchase plan generated",
		zap.String("plan_id", plan.ID),
		zap.String("event_id", e.ID),
		zap.String("buy_date", plan.BuyDate),
	)
	return plan, nil
}

func (s *Service) ListPurchasePlans(ctx context.Context) ([]PurchasePlan, error) {
	list, err := s.plans.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list purchase plans: %w", err)
	}
	return list, nil
}

func (s *Service) view(e SeasonalEvent) EventView {
	v := EventView{SeasonalEvent: e}
	date, err := calendar.ParseDate(e.Date, s.loc)
	if err != nil {
		return v
	}
	v.DaysUntil = calendar.DaysUntil(s.now(), date)
	v.Timing = TimingFor(v.DaysUntil)
	return v
}

func splitProducts(list string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
