// internal/feed/feed.go
package feed

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
)

var ErrProductNotFound = errors.New("product not found")

// CatalogStore is the read side of the catalog the feed is built from.
type CatalogStore interface {
	// FindDistinctProductCodes returns the page of distinct EANs matching
	// filter, in the given order.
	FindDistinctProductCodes(ctx context.Context, filter Filter, order SelectionOrder, page Page) ([]int64, error)
	// CountDistinct counts distinct EANs matching filter, regardless of stock.
	CountDistinct(ctx context.Context, filter Filter) (int64, error)
	// FetchProductsWithOffers hydrates products with every stock line,
	// location and merchant. Unknown codes are omitted; order is unspecified.
	FetchProductsWithOffers(ctx context.Context, codes []int64) ([]ProductOffers, error)
}

type Assembler struct {
	store  CatalogStore
	ranker *Ranker
}

func NewAssembler(store CatalogStore, ranker *Ranker) *Assembler {
	if ranker == nil {
		ranker = NewRanker(DefaultWeights)
	}
	return &Assembler{store: store, ranker: ranker}
}

// BuildFeed selects a page of products, hydrates and ranks their offers.
// Products left without in-stock offers are dropped, so a page may hold
// fewer than Limit entries while TotalCount still counts them.
func (a *Assembler) BuildFeed(ctx context.Context, req Request) (Result, error) {
	total, err := a.store.CountDistinct(ctx, req.Filter)
	if err != nil {
		return Result{}, fmt.Errorf("count products: %w", err)
	}

	codes, err := a.store.FindDistinctProductCodes(ctx, req.Filter, SelectionOrderFor(req.Policy), req.Page)
	if err != nil {
		return Result{}, fmt.Errorf("select products: %w", err)
	}
	if len(codes) == 0 {
		return Result{Entries: []FeedEntry{}, TotalCount: total}, nil
	}

	hydrated, err := a.store.FetchProductsWithOffers(ctx, codes)
	if err != nil {
		return Result{}, fmt.Errorf("fetch products: %w", err)
	}

	byCode := make(map[int64]ProductOffers, len(hydrated))
	for _, p := range hydrated {
		byCode[p.Product.EAN] = p
	}

	entries := make([]FeedEntry, 0, len(codes))
	for _, code := range codes {
		p, ok := byCode[code]
		if !ok {
			continue
		}
		if entry, ok := a.buildEntry(p, req.Policy, req.Viewer); ok {
			entries = append(entries, entry)
		}
	}

	return Result{Entries: a.present(entries, req.Policy, req.Viewer), TotalCount: total}, nil
}

// ProductOffers ranks every in-stock offer of one product for a viewer
// with the best_value policy.
func (a *Assembler) ProductOffers(ctx context.Context, ean int64, viewer Coordinates) (ProductOffersView, error) {
	hydrated, err := a.store.FetchProductsWithOffers(ctx, []int64{ean})
	if err != nil {
		return ProductOffersView{}, fmt.Errorf("fetch product %d: %w", ean, err)
	}

	idx := slices.IndexFunc(hydrated, func(p ProductOffers) bool { return p.Product.EAN == ean })
	if idx < 0 {
		return ProductOffersView{}, ErrProductNotFound
	}
	p := hydrated[idx]

	ranked := a.ranker.Rank(Aggregate(p, &viewer), PolicyBestValue, &viewer)
	view := ProductOffersView{
		Product: ProductSummary{EAN: p.Product.EAN, Name: p.Product.Name, Category: p.Product.Category},
		Offers:  ranked,
	}
	if len(ranked) > 0 {
		best := ranked[0]
		view.BestOffer = &best
	}
	return view, nil
}

func (a *Assembler) buildEntry(p ProductOffers, policy Policy, viewer *Coordinates) (FeedEntry, bool) {
	offers := Aggregate(p, viewer)
	if len(offers) == 0 {
		return FeedEntry{}, false
	}

	minPrice, maxPrice := PriceSpan(offers)
	ranked := a.ranker.Rank(offers, policy, viewer)

	return FeedEntry{
		EAN:       p.Product.EAN,
		Name:      p.Product.Name,
		Category:  p.Product.Category,
		Weight:    p.Product.Weight,
		Offers:    ranked,
		BestOffer: ranked[0],
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
	}, true
}

// present applies the presentation order on top of the selection order.
// Only best_value with a viewer reorders, using each entry's best offer price.
func (a *Assembler) present(entries []FeedEntry, policy Policy, viewer *Coordinates) []FeedEntry {
	if policy != PolicyBestValue || viewer == nil {
		return entries
	}
	slices.SortStableFunc(entries, func(x, y FeedEntry) int {
		return cmp.Compare(x.BestOffer.Price, y.BestOffer.Price)
	})
	return entries
}
