package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/birdiedeals/birdie/internal/adapters/repository"
	"github.com/birdiedeals/birdie/internal/domain/dedupe"
	"github.com/birdiedeals/birdie/internal/domain/matching"
	"github.com/birdiedeals/birdie/internal/domain/model"
	"github.com/birdiedeals/birdie/internal/domain/risk"
	"github.com/birdiedeals/birdie/pkg/logger"
	"github.com/birdiedeals/birdie/pkg/metrics"
)

// Envelope shapes a matching outcome for p into a model.Recommendation. The gap
// analysis is only attached when a gap was found.
func Envelope(p model.Profile, sug matching.Suggestion) model.Recommendation { //nolint:gocritic // hugeParam: read-only value types
	rec := model.Recommendation{
		Deals:          sug.Deals,
		Reasoning:      sug.Reasoning,
		ProfileSummary: p.Summarize(),
		RiskScores:     model.RiskScores{WedgeWearRisk: sug.WearRisk},
	}
	if rec.Deals == nil {
		rec.Deals = []model.Deal{}
	}
	if sug.Gap.HasGap {
		gap := sug.Gap
		rec.GappingAnalysis = &gap
	}
	return rec
}

// Recommend builds the personalized envelope for u. When at least one deal
// is recommended a "Recommendation Generated" notification is queued; the
// response never waits for its delivery.
func (s *Service) Recommend(ctx context.Context, u model.User) model.Recommendation { //nolint:gocritic // hugeParam: read-only
	start := time.Now()
	sug := s.matcher.Suggest(u.Profile, s.catalog)
	rec := Envelope(u.Profile, sug)

	confidence := ""
	if len(sug.Deals) > 0 {
		confidence = sug.Confidence()
	}
	metrics.RecordRecommendation(len(sug.Deals), confidence, float64(time.Since(start).Microseconds())/1000)
	for _, rule := range sug.Rules {
		metrics.RecordRuleHit(rule)
	}
	if sug.Gap.HasGap {
		metrics.RecordGapDetected(string(sug.Gap.GapType))
	}

	s.logger.Debug(ctx, "recommendation built",
		logger.String("user_id", u.ID),
		logger.Int("deals", len(sug.Deals)),
		logger.Any("rules", sug.Rules),
	)

	if len(sug.Deals) == 0 {
		return rec
	}

	_ = s.notify(ctx, model.Notification{
		Kind:   model.KindEvent,
		Name:   model.EventRecommendationGenerated,
		UserID: u.ID,
		Email:  u.Email,
		Properties: map[string]any{
			"categories": lo.Map(sug.Categories, func(c model.Category, _ int) string { return string(c) }),
			"deal_count": len(sug.Deals),
			"confidence": confidence,
		},
	})
	return rec
}

// Featured returns the whole catalog in catalog order, unscored.
func (s *Service) Featured(_ context.Context) []model.Deal {
	return s.catalog.Deals()
}

// TrackDealView records that u looked at a deal. It reports whether the deal
// exists. Repeat views inside the dedupe window are not re-sent.
func (s *Service) TrackDealView(ctx context.Context, u model.User, dealID string) bool { //nolint:gocritic // hugeParam: read-only
	d, ok := s.catalog.ByID(dealID)
	if !ok {
		return false
	}
	s.trackEngagement(ctx, u, d, model.EventDealViewed, "view", nil)
	return true
}

// TrackDealClick records that u followed a deal and returns its URL.
func (s *Service) TrackDealClick(ctx context.Context, u model.User, dealID string) (string, bool) { //nolint:gocritic // hugeParam: read-only
	d, ok := s.catalog.ByID(dealID)
	if !ok {
		return "", false
	}
	s.trackEngagement(ctx, u, d, model.EventDealClicked, "click", map[string]any{"retailer": d.Retailer})
	return d.URL, true
}

func (s *Service) trackEngagement(ctx context.Context, u model.User, d model.Deal, event, label string, extra map[string]any) { //nolint:gocritic // hugeParam: read-only
	key := dedupe.Key(u.ID, d.ID, event)
	if s.deduper.SeenAndRecord(ctx, key) {
		metrics.RecordEngagementDuplicate()
		s.logger.Debug(ctx, "duplicate engagement suppressed",
			logger.String("user_id", u.ID),
			logger.String("deal_id", d.ID),
			logger.String("event", event),
		)
		return
	}
	metrics.RecordEngagement(label)

	props := map[string]any{
		"deal_id":       d.ID,
		"deal_title":    d.Title,
		"deal_category": string(d.Category),
		"deal_price":    d.Price,
	}
	for k, v := range extra {
		props[k] = v
	}

	err := s.notify(ctx, model.Notification{
		Kind:       model.KindEvent,
		Name:       event,
		UserID:     u.ID,
		Email:      u.Email,
		Properties: props,
		Value:      model.Ptr(d.Price),
	})
	if err != nil {
		// let a later attempt through since nothing was sent
		s.deduper.Unrecord(ctx, key)
	}
}

// Me returns the stored record for the authenticated user. A user the store
// has never seen gets an empty profile.
func (s *Service) Me(ctx context.Context, userID, email string) (model.User, error) {
	if userID == "" {
		return model.User{}, ErrInvalidUser
	}
	store, err := s.profileStore()
	if err != nil {
		return model.User{}, err
	}

	u, err := store.Get(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return model.User{ID: userID, Email: email}, nil
	case err != nil:
		return model.User{}, fmt.Errorf("load user %s: %w", userID, err)
	}
	if u.Email == "" {
		u.Email = email
	}
	return u, nil
}

// UpdateProfile replaces the profile of u, then queues a profile upsert
// followed by a "Bag Updated" event and, when the bag has a yardage gap, a
// "Gap Detected" event. The three go out as one chain so the sink sees them
// in that order.
func (s *Service) UpdateProfile(ctx context.Context, u model.User) (model.User, error) { //nolint:gocritic // hugeParam: read-only
	if u.ID == "" {
		return model.User{}, ErrInvalidUser
	}
	store, err := s.profileStore()
	if err != nil {
		return model.User{}, err
	}

	u.UpdatedAt = s.now().UTC()
	stored, err := store.Put(ctx, u)
	if err != nil {
		return model.User{}, fmt.Errorf("update profile %s: %w", u.ID, err)
	}

	p := stored.Profile
	var budget any
	if p.BudgetSensitivity != "" {
		budget = string(p.BudgetSensitivity)
	}
	var handicap any
	if p.Handicap != nil {
		handicap = *p.Handicap
	}
	then := []model.Notification{{
		Kind:   model.KindEvent,
		Name:   model.EventBagUpdated,
		UserID: stored.ID,
		Email:  stored.Email,
		Properties: map[string]any{
			"club_count":        len(p.Clubs),
			"handicap":          handicap,
			"budget_preference": budget,
		},
	}}

	if gap := risk.ComputeGapping(p); gap.HasGap {
		metrics.RecordGapDetected(string(gap.GapType))
		then = append(then, model.Notification{
			Kind:   model.KindEvent,
			Name:   model.EventGapDetected,
			UserID: stored.ID,
			Email:  stored.Email,
			Properties: map[string]any{
				"gap_type":    string(gap.GapType),
				"gap_details": gap.GapDetails,
			},
		})
	}

	_ = s.notify(ctx, model.Notification{
		Kind:       model.KindProfileUpsert,
		UserID:     stored.ID,
		Email:      stored.Email,
		Properties: matching.BuildProfileProperties(p),
		Then:       then,
	})

	s.logger.Info(ctx, "profile updated",
		logger.String("user_id", stored.ID),
		logger.Int("clubs", len(p.Clubs)),
	)
	return stored, nil
}
