package marketing

import (
	"context"
	"fmt"
	"math"
)

// AddFeedback records a new customer review.
func (s *Service) AddFeedback(ctx context.Context, f Feedback) (Feedback, error) {
	f.ID = ""
	f.Status = FeedbackNew
	f.Date = s.now().UTC()
	created, err := s.feedback.Create(ctx, f)
	if err != nil {
		return Feedback{}, fmt.Errorf("add feedback: %w", err)
	}
	return created, nil
}

func (s *Service) ListFeedback(ctx context.Context) ([]Feedback, error) {
	list, err := s.feedback.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return list, nil
}

// AverageRating is the mean rating of productID to one decimal, 0 without reviews.
func (s *Service) AverageRating(ctx context.Context, productID string) (float64, error) {
	list, err := s.ListFeedback(ctx)
	if err != nil {
		return 0, err
	}
	sum, n := 0, 0
	for _, f := range list {
		if f.ProductID == productID {
			sum += f.Rating
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return math.Round(float64(sum)/float64(n)*10) / 10, nil
}
