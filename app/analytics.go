package app

import (
	"context"
	"fmt"

	"github.com/artpar/showroom/domain/tracking"
	"github.com/artpar/showroom/ports"
)

// AnalyticsService serves windowed dashboard aggregates. Pure reads, no
// side effects; errors propagate to the caller since a dashboard query has
// a user waiting on it.
type AnalyticsService struct {
	visitors     ports.VisitorStore
	pageViews    ports.PageViewStore
	productViews ports.ProductViewStore
	clock        ports.Clock
}

// NewAnalyticsService creates the read-only aggregation service.
func NewAnalyticsService(visitors ports.VisitorStore, pageViews ports.PageViewStore, productViews ports.ProductViewStore, clock ports.Clock) *AnalyticsService {
	return &AnalyticsService{
		visitors:     visitors,
		pageViews:    pageViews,
		productViews: productViews,
		clock:        clock,
	}
}

// SiteAnalytics computes the site-wide dashboard aggregate over a trailing
// window of windowDays days. A row exactly at the window boundary is
// included.
func (s *AnalyticsService) SiteAnalytics(ctx context.Context, windowDays int) (tracking.SiteSummary, error) {
	if windowDays <= 0 {
		windowDays = 30
	}
	since := tracking.WindowStart(s.clock.Now(), windowDays)

	total, err := s.pageViews.CountSince(ctx, since)
	if err != nil {
		return tracking.SiteSummary{}, fmt.Errorf("total views: %w", err)
	}

	unique, err := s.visitors.CountUniqueSince(ctx, since)
	if err != nil {
		return tracking.SiteSummary{}, fmt.Errorf("unique visitors: %w", err)
	}

	topPages, err := s.pageViews.TopPages(ctx, since, tracking.TopN)
	if err != nil {
		return tracking.SiteSummary{}, fmt.Errorf("top pages: %w", err)
	}

	daily, err := s.pageViews.DailyCounts(ctx, since)
	if err != nil {
		return tracking.SiteSummary{}, fmt.Errorf("daily views: %w", err)
	}

	referrers, err := s.pageViews.TopReferrers(ctx, since, tracking.TopN)
	if err != nil {
		return tracking.SiteSummary{}, fmt.Errorf("top referrers: %w", err)
	}

	return tracking.SiteSummary{
		WindowDays:     windowDays,
		Since:          since,
		TotalViews:     total,
		UniqueVisitors: unique,
		TopPages:       topPages,
		DailyViews:     daily,
		TopReferrers:   referrers,
	}, nil
}

// ProductAnalytics computes the per-product aggregate over a trailing
// window of windowDays days.
func (s *AnalyticsService) ProductAnalytics(ctx context.Context, productID int64, windowDays int) (tracking.ProductSummary, error) {
	if windowDays <= 0 {
		windowDays = 30
	}
	since := tracking.WindowStart(s.clock.Now(), windowDays)

	total, err := s.productViews.CountSince(ctx, productID, since)
	if err != nil {
		return tracking.ProductSummary{}, fmt.Errorf("product views: %w", err)
	}

	uniqueIPs, err := s.productViews.CountUniqueIPsSince(ctx, productID, since)
	if err != nil {
		return tracking.ProductSummary{}, fmt.Errorf("unique ips: %w", err)
	}

	pages, err := s.productViews.PageBreakdown(ctx, productID, since)
	if err != nil {
		return tracking.ProductSummary{}, fmt.Errorf("page breakdown: %w", err)
	}

	return tracking.ProductSummary{
		ProductID:  productID,
		WindowDays: windowDays,
		Since:      since,
		TotalViews: total,
		UniqueIPs:  uniqueIPs,
		PageViews:  pages,
	}, nil
}
