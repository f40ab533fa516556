package marketing

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"api_retail/internal/apperr"
)

// CreateCampaign records an active, unsent campaign.
func (s *Service) CreateCampaign(ctx context.Context, c Campaign) (Campaign, error) {
	c.ID = ""
	c.Status = CampaignActive
	c.Recipients = 0
	c.SentAt = nil
	c.CreatedAt = s.now().UTC()
	if c.EndDate < c.StartDate {
		return Campaign{}, apperr.Validation("end_date", "must not be before start_date")
	}
	created, err := s.campaigns.Create(ctx, c)
	if err != nil {
		return Campaign{}, fmt.Errorf("create campaign: %w", err)
	}
	s.logger.Info("campaign created", zap.String("campaign_id", created.ID), zap.String("target", string(created.Target)))
	return created, nil
}

func (s *Service) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	list, err := s.campaigns.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return list, nil
}

// SendCampaign delivers the campaign message to its segment and records how
// many customers it reached. A campaign is sent at most once.
func (s *Service) SendCampaign(ctx context.Context, id string) (Campaign, error) {
	c, err := s.campaigns.Get(ctx, id)
	if err != nil {
		return Campaign{}, fmt.Errorf("get campaign %s: %w", id, err)
	}
	if c.SentAt != nil {
		return Campaign{}, apperr.Validation("campaign", "was already sent")
	}
	recipients, err := s.audience.InSegment(ctx, c.Target)
	if err != nil {
		return Campaign{}, fmt.Errorf("resolve campaign audience: %w", err)
	}

	sentAt := s.now().UTC()
	sent, err := s.campaigns.Modify(ctx, id, func(cur *Campaign) error {
		if cur.SentAt != nil {
			return apperr.Validation("campaign", "was already sent")
		}
		cur.Recipients = len(recipients)
		cur.SentAt = &sentAt
		return nil
	})
	if err != nil {
		return Campaign{}, fmt.Errorf("send campaign %s: %w", id, err)
	}
	s.logger.Info("campaign sent",
		zap.String("campaign_id", id),
		zap.Int("recipients", sent.Recipients),
		zap.String("message", campaignMessage(sent)),
	)
	return sent, nil
}

func campaignMessage(c Campaign) string {
	return fmt.Sprintf("%s\n%s\n%s%% off\nValid until %s", c.Name, c.Description, c.Discount.String(), c.EndDate)
}
