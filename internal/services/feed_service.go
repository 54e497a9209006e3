// internal/services/feed_service.go
package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/geomarket/internal/config"
	"github.com/javajoker/geomarket/internal/feed"
	"github.com/javajoker/geomarket/internal/metrics"
)

// snapshotFunc runs fn against a catalog view that is consistent for the
// duration of the call.
type snapshotFunc func(ctx context.Context, fn func(CatalogReader) error) error

type FeedService struct {
	snapshot snapshotFunc
	ranker   *feed.Ranker
}

type FeedRequest struct {
	Filter feed.Filter
	Page   feed.Page
	Policy feed.Policy
	Viewer *feed.Coordinates
}

func NewFeedService(db *gorm.DB, cfg *config.Config) *FeedService {
	readOnly := &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead}
	return &FeedService{
		snapshot: func(ctx context.Context, fn func(CatalogReader) error) error {
			return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				return fn(NewCatalogStore(tx))
			}, readOnly)
		},
		ranker: rankerFor(cfg),
	}
}

// NewFeedServiceWithReader serves every call from reader without a
// transaction. Used with in-memory catalogs.
func NewFeedServiceWithReader(reader CatalogReader, cfg *config.Config) *FeedService {
	return &FeedService{
		snapshot: func(_ context.Context, fn func(CatalogReader) error) error {
			return fn(reader)
		},
		ranker: rankerFor(cfg),
	}
}

func rankerFor(cfg *config.Config) *feed.Ranker {
	w := feed.DefaultWeights
	if cfg != nil {
		w = feed.Weights{Price: cfg.Feed.PriceWeight, Distance: cfg.Feed.DistanceWeight}
	}
	if err := w.Validate(); err != nil {
		logrus.WithError(err).Warn("Invalid feed weights, using defaults")
		w = feed.DefaultWeights
	}
	return feed.NewRanker(w)
}

func (s *FeedService) Feed(ctx context.Context, req FeedRequest) (feed.Result, error) {
	if req.Policy.NeedsViewer() && req.Viewer == nil {
		metrics.FeedPolicyFallback(string(req.Policy))
	}

	started := time.Now()
	var result feed.Result
	err := s.snapshot(ctx, func(r CatalogReader) error {
		var err error
		result, err = feed.NewAssembler(r, s.ranker).BuildFeed(ctx, feed.Request{
			Filter: req.Filter,
			Page:   req.Page,
			Policy: req.Policy,
			Viewer: req.Viewer,
		})
		return err
	})
	if err != nil {
		return feed.Result{}, err
	}

	metrics.ObserveFeedBuild(string(req.Policy), len(result.Entries), time.Since(started))
	return result, nil
}

// Search is the feed restricted to a free-text term, cheapest first.
func (s *FeedService) Search(ctx context.Context, term string, page feed.Page) (feed.Result, error) {
	return s.Feed(ctx, FeedRequest{
		Filter: feed.Filter{Search: term},
		Page:   page,
		Policy: feed.PolicyPrice,
	})
}

func (s *FeedService) ProductOffers(ctx context.Context, ean int64, viewer feed.Coordinates) (feed.ProductOffersView, error) {
	var view feed.ProductOffersView
	err := s.snapshot(ctx, func(r CatalogReader) error {
		var err error
		view, err = feed.NewAssembler(r, s.ranker).ProductOffers(ctx, ean, viewer)
		return err
	})
	return view, err
}

func (s *FeedService) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.snapshot(ctx, func(r CatalogReader) error {
		var err error
		categories, err = r.Categories(ctx)
		return err
	})
	return categories, err
}

func (s *FeedService) Merchants(ctx context.Context) ([]feed.Merchant, error) {
	var merchants []feed.Merchant
	err := s.snapshot(ctx, func(r CatalogReader) error {
		var err error
		merchants, err = r.Merchants(ctx)
		return err
	})
	return merchants, err
}
