// Package app contains the application services wiring domain logic to
// storage ports.
package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/artpar/showroom/adapters/metrics"
	"github.com/artpar/showroom/domain/tracking"
	"github.com/artpar/showroom/domain/visitor"
	"github.com/artpar/showroom/ports"
)

// TrackerService is the visitor tracking write path: it classifies the
// client, resolves the anonymous session, and records page and product
// views. Every failure is logged and swallowed - tracking is a side channel
// and must never break the page being served.
type TrackerService struct {
	classifier   *visitor.Classifier
	exclusions   *tracking.ExclusionPolicy
	pageViews    ports.PageViewStore
	productViews ports.ProductViewStore
	clock        ports.Clock
	random       ports.Random
	metrics      *metrics.Collector
	logger       zerolog.Logger
}

// TrackerDeps contains dependencies for the tracker service.
type TrackerDeps struct {
	Classifier   *visitor.Classifier
	Exclusions   *tracking.ExclusionPolicy
	PageViews    ports.PageViewStore
	ProductViews ports.ProductViewStore
	Clock        ports.Clock
	Random       ports.Random
	Metrics      *metrics.Collector // optional
	Logger       zerolog.Logger
}

// NewTrackerService creates the tracking write path.
func NewTrackerService(deps TrackerDeps) *TrackerService {
	return &TrackerService{
		classifier:   deps.Classifier,
		exclusions:   deps.Exclusions,
		pageViews:    deps.PageViews,
		productViews: deps.ProductViews,
		clock:        deps.Clock,
		random:       deps.Random,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
	}
}

// RecordPageView records one page render. Bot clients and excluded paths
// produce no rows and no session mutation. The returned key is the session
// key the web layer should attach to the client's cookie; it is empty when
// nothing was recorded and no key should be set.
func (s *TrackerService) RecordPageView(ctx context.Context, url, title string, meta tracking.RequestMeta) string {
	if s.classifier.IsBot(meta.UserAgent) {
		if s.metrics != nil {
			s.metrics.BotsFiltered.Inc()
		}
		return ""
	}
	if s.exclusions.Excluded(url) {
		if s.metrics != nil {
			s.metrics.ExcludedHits.Inc()
		}
		return ""
	}

	key := meta.SessionKey
	minted := false
	if key == "" {
		var err error
		key, err = s.random.Token(visitor.SessionKeyBytes)
		if err != nil {
			s.logger.Error().Err(err).Str("url", url).Msg("mint session key")
			s.trackingError("page_view")
			return ""
		}
		minted = true
	}

	now := s.clock.Now()
	pv := tracking.PageView{
		PageURL:    url,
		PageTitle:  title,
		UserAgent:  meta.UserAgent,
		IPAddress:  meta.IPAddress,
		Referrer:   meta.Referrer,
		SessionKey: key,
		CreatedAt:  now,
	}
	sess := visitor.NewSession(key, meta.IPAddress, meta.UserAgent, false, now)

	if err := s.pageViews.RecordWithSession(ctx, pv, sess); err != nil {
		s.logger.Error().Err(err).
			Str("url", url).
			Str("session_key", key).
			Msg("record page view")
		s.trackingError("page_view")
		return ""
	}

	if s.metrics != nil {
		s.metrics.PageViewsRecorded.Inc()
		if minted {
			s.metrics.SessionsCreated.Inc()
		}
	}
	return key
}

// RecordProductView records one product interaction and bumps the product's
// view counter. Unlike page views, product engagement is recorded even for
// bot-classified clients, so the stored counter always matches the raw
// event log.
func (s *TrackerService) RecordProductView(ctx context.Context, productID int64, pageNumber int, viewType tracking.ViewType, meta tracking.RequestMeta) {
	if pageNumber <= 0 {
		pageNumber = 1
	}
	if !tracking.IsValidViewType(viewType) {
		viewType = tracking.ViewProduct
	}

	pv := tracking.ProductView{
		ProductID:  productID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		PageNumber: pageNumber,
		ViewType:   viewType,
		CreatedAt:  s.clock.Now(),
	}

	if err := s.productViews.RecordWithCount(ctx, pv); err != nil {
		s.logger.Error().Err(err).
			Int64("product_id", productID).
			Str("view_type", string(viewType)).
			Msg("record product view")
		s.trackingError("product_view")
		return
	}

	if s.metrics != nil {
		s.metrics.ProductViewsRecorded.WithLabelValues(string(viewType)).Inc()
	}
}

func (s *TrackerService) trackingError(op string) {
	if s.metrics != nil {
		s.metrics.TrackingErrors.WithLabelValues(op).Inc()
	}
}
