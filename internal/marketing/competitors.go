package marketing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"api_retail/internal/apperr"
)

var (
	reduceAbove   = decimal.RequireFromString("1.1")
	reduceTo      = decimal.RequireFromString("0.95")
	increaseBelow = decimal.RequireFromString("0.9")
	increaseTo    = decimal.RequireFromString("0.98")
)

func (s *Service) CreateCompetitor(ctx context.Context, c Competitor) (Competitor, error) {
	c.ID = ""
	c.Prices = nil
	created, err := s.competitors.Create(ctx, c)
	if err != nil {
		return Competitor{}, fmt.Errorf("create competitor: %w", err)
	}
	return created, nil
}

func (s *Service) ListCompetitors(ctx context.Context) ([]Competitor, error) {
	list, err := s.competitors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list competitors: %w", err)
	}
	return list, nil
}

// SetPrice records what the competitor charges for productID.
func (s *Service) SetPrice(ctx context.Context, competitorID, productID string, price decimal.Decimal) (Competitor, error) {
	if productID == "" {
		return Competitor{}, apperr.Validation("product_id", "is required")
	}
	if !price.IsPositive() {
		return Competitor{}, apperr.Validation("price", "must be greater than zero")
	}
	if _, err := s.catalogue.Get(ctx, productID); err != nil {
		return Competitor{}, err
	}
	c, err := s.competitors.Modify(ctx, competitorID, func(cur *Competitor) error {
		if cur.Prices == nil {
			cur.Prices = make(map[string]decimal.Decimal)
		}
		cur.Prices[productID] = price
		return nil
	})
	if err != nil {
		return Competitor{}, fmt.Errorf("set competitor price: %w", err)
	}
	s.logger.Info("competitor price recorded",
		zap.String("competitor_id", competitorID),
		zap.String("product_id", productID),
		zap.String("price", price.String()),
	)
	return c, nil
}

// SuggestPrice compares the product's sale price with competitor prices.
// A price more than 10% above the average is reduced to 95% of it; a price
// more than 10% below the cheapest competitor is raised to 98% of that.
func (s *Service) SuggestPrice(ctx context.Context, productID string) (PriceSuggestion, error) {
	p, err := s.catalogue.Get(ctx, productID)
	if err != nil {
		return PriceSuggestion{}, err
	}
	list, err := s.ListCompetitors(ctx)
	if err != nil {
		return PriceSuggestion{}, err
	}

	prices := make([]decimal.Decimal, 0, len(list))
	for _, c := range list {
		if price, ok := c.Prices[productID]; ok {
			prices = append(prices, price)
		}
	}
	suggestion := PriceSuggestion{ProductID: productID, CurrentPrice: p.SalePrice, Action: PriceKeep, SuggestedPrice: p.SalePrice}
	if len(prices) == 0 {
		return suggestion, nil
	}

	suggestion.AveragePrice = decimal.Avg(prices[0], prices[1:]...)
	suggestion.MinimumPrice = decimal.Min(prices[0], prices[1:]...)
	switch {
	case p.SalePrice.GreaterThan(suggestion.AveragePrice.Mul(reduceAbove)):
		suggestion.Action = PriceReduce
		suggestion.SuggestedPrice = suggestion.AveragePrice.Mul(reduceTo).Round(2)
	case p.SalePrice.LessThan(suggestion.MinimumPrice.Mul(increaseBelow)):
		suggestion.Action = PriceIncrease
		suggestion.SuggestedPrice = suggestion.MinimumPrice.Mul(increaseTo).Round(2)
	}
	return suggestion, nil
}
