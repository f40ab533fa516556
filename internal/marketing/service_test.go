package marketing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"api_retail/internal/apperr"
	"api_retail/internal/customers"
	"api_retail/internal/products"
	"api_retail/internal/store"
)

var fixedNow = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc       *Service
	customers *customers.Service
	products  *products.Service
}

func setup(t *testing.T) fixture {
	s := store.NewMemoryStore()
	logger := zaptest.NewLogger(t)
	cs := customers.NewService(s, logger, nil)
	ps := products.NewService(s, logger, nil)
	svc := NewService(s, cs, ps, logger, time.UTC)
	svc.now = func() time.Time { return fixedNow }
	return fixture{svc: svc, customers: cs, products: ps}
}

func (f fixture) customer(t *testing.T, points int) {
	c, err := f.customers.Create(context.Background(), customers.Customer{Name: "Cliente", Phone: "1"})
	require.NoError(t, err)
	if points > 0 {
		_, err = f.customers.AddPoints(context.Background(), c.ID, points)
		require.NoError(t, err)
	}
}

func (f fixture) product(t *testing.T, price string) products.Product {
	p, err := f.products.Create(context.Background(), products.Product{
		Name:       "Arroz",
		Category:   "cereais",
		Quantity:   10,
		SalePrice:  decimal.RequireFromString(price),
		ExpiryDate: "2027-01-01",
	})
	require.NoError(t, err)
	return p
}

func TestSendCampaign(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	for _, p := range []int{0, 120, 300, 600, 1500} {
		f.customer(t, p)
	}

	c, err := f.svc.CreateCampaign(ctx, Campaign{
		Name:      "Promo Natal",
		Discount:  decimal.NewFromInt(15),
		StartDate: "2026-12-01",
		EndDate:   "2026-12-25",
		Target:    customers.SegmentSilver,
	})
	require.NoError(t, err)
	assert.Equal(t, CampaignActive, c.Status)
	assert.Nil(t, c.SentAt)

	sent, err := f.svc.SendCampaign(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, sent.Recipients)
	require.NotNil(t, sent.SentAt)
	assert.Equal(t, fixedNow, *sent.SentAt)

	_, err = f.svc.SendCampaign(ctx, c.ID)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.SendCampaign(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateCampaign_Validation(t *testing.T) {
	f := setup(t)
	base := Campaign{Name: "x", Discount: decimal.NewFromInt(10), StartDate: "2026-11-01", EndDate: "2026-11-30", Target: customers.SegmentAll}

	cases := map[string]func(c *Campaign){
		"zero discount":      func(c *Campaign) { c.Discount = decimal.Zero },
		"discount over 100":  func(c *Campaign) { c.Discount = decimal.NewFromInt(101) },
		"unknown segment":    func(c *Campaign) { c.Target = "bronze" },
		"ends before starts": func(c *Campaign) { c.EndDate = "2026-10-01" },
		"bad date":           func(c *Campaign) { c.StartDate = "01-11-2026" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			_, err := f.svc.CreateCampaign(context.Background(), c)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestAverageRating(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	avg, err := f.svc.AverageRating(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)

	for _, r := range []int{5, 4, 4} {
		_, err := f.svc.AddFeedback(ctx, Feedback{CustomerName: "Ana", ProductID: "p1", Rating: r})
		require.NoError(t, err)
	}
	_, err = f.svc.AddFeedback(ctx, Feedback{CustomerName: "Rui", ProductID: "p2", Rating: 1})
	require.NoError(t, err)

	avg, err = f.svc.AverageRating(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 4.3, avg)

	_, err = f.svc.AddFeedback(ctx, Feedback{CustomerName: "Ana", ProductID: "p1", Rating: 6})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSuggestPrice(t *testing.T) {
	tests := []struct {
		name      string
		price     string
		rivals    []string
		action    PriceAction
		suggested string
	}{
		{"no competitor prices", "100", nil, PriceKeep, "100"},
		{"well above average", "120", []string{"100", "100"}, PriceReduce, "95"},
		{"within range", "105", []string{"100", "110"}, PriceKeep, "105"},
		{"well below cheapest", "80", []string{"100", "120"}, PriceIncrease, "98"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			ctx := context.Background()
			p := f.product(t, tt.price)
			for _, rival := range tt.rivals {
				c, err := f.svc.CreateCompetitor(ctx, Competitor{Name: "Shoprite"})
				require.NoError(t, err)
				_, err = f.svc.SetPrice(ctx, c.ID, p.ID, decimal.RequireFromString(rival))
				require.NoError(t, err)
			}

			got, err := f.svc.SuggestPrice(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.action, got.Action)
			assert.True(t, got.SuggestedPrice.Equal(decimal.RequireFromString(tt.suggested)), got.SuggestedPrice.String())
		})
	}
}

func TestSetPrice_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.product(t, "10")
	c, err := f.svc.CreateCompetitor(ctx, Competitor{Name: "Shoprite"})
	require.NoError(t, err)

	_, err = f.svc.SetPrice(ctx, c.ID, p.ID, decimal.Zero)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.svc.SetPrice(ctx, c.ID, "missing", decimal.NewFromInt(5))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.svc.SetPrice(ctx, "missing", p.ID, decimal.NewFromInt(5))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestTimingFor(t *testing.T) {
	assert.Equal(t, TimingPast, TimingFor(-1))
	assert.Equal(t, TimingImminent, TimingFor(0))
	assert.Equal(t, TimingImminent, TimingFor(7))
	assert.Equal(t, TimingSoon, TimingFor(8))
	assert.Equal(t, TimingSoon, TimingFor(30))
	assert.Equal(t, TimingFuture, TimingFor(31))
}

func TestEvents(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	dates := map[string]string{
		"Dia da Independência": "2026-06-25",
		"Dia da Mulher":        "2026-10-20",
		"Natal":                "2026-12-25",
		"Dia da Paz":           "2026-11-05",
	}
	ids := make(map[string]string)
	for name, date := range dates {
		v, err := f.svc.CreateEvent(ctx, SeasonalEvent{
			Name:              name,
			Date:              date,
			ExpectedDemand:    40,
			SuggestedProducts: "Arroz, Óleo ,,Açúcar",
		})
		require.NoError(t, err)
		ids[name] = v.ID
	}

	list, err := f.svc.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "Dia da Independência", list[0].Name)
	assert.Equal(t, TimingPast, list[0].Timing)
	assert.Equal(t, TimingImminent, list[1].Timing)
	assert.Equal(t, TimingSoon, list[2].Timing)
	assert.Equal(t, TimingFuture, list[3].Timing)

	upcoming, err := f.svc.Upcoming(ctx)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "Dia da Mulher", upcoming[0].Name)

	plan, err := f.svc.GeneratePurchasePlan(ctx, ids["Natal"])
	require.NoError(t, err)
	assert.Equal(t, []string{"Arroz", "Óleo", "Açúcar"}, plan.Products)
	assert.Equal(t, 40, plan.SuggestedQuantity)
	assert.Equal(t, "2026-12-18", plan.BuyDate)
	assert.Equal(t, PlanPending, plan.Status)

	_, err = f.svc.GeneratePurchasePlan(ctx, ids["Dia da Independência"])
	assert.ErrorIs(t, err, apperr.ErrValidation)

	plans, err := f.svc.ListPurchasePlans(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 1)
}
