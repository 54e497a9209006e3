// Package feedtest provides an in-memory feed.CatalogStore for tests.
package feedtest

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/javajoker/geomarket/internal/feed"
)

// Store keeps products and offers in memory and mimics the SQL store's
// filtering: case-insensitive substring match, distinct by EAN.
type Store struct {
	mu        sync.RWMutex
	products  map[int64]feed.Product
	offers    []feed.RawOffer
	fold      cases.Caser
	Err       error
	Calls     []string
	lastCodes []int64
}

func NewStore() *Store {
	return &Store{
		products: make(map[int64]feed.Product),
		fold:     cases.Fold(),
	}
}

func (s *Store) AddProduct(p feed.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.EAN] = p
}

// AddOffer registers a stock line. SKU ids are assigned when zero.
func (s *Store) AddOffer(ean int64, price float64, amount int, loc feed.StockLocation, m feed.Merchant) feed.RawOffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc.MerchantID = m.ID
	raw := feed.RawOffer{
		Offer: feed.StockOffer{
			SKUID:      int64(len(s.offers) + 1),
			ProductEAN: ean,
			StockID:    loc.ID,
			Price:      price,
			Amount:     amount,
		},
		Location: loc,
		Merchant: m,
	}
	s.offers = append(s.offers, raw)
	return raw
}

// LastCodes returns the codes passed to the latest FetchProductsWithOffers call.
func (s *Store) LastCodes() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lastCodes)
}

func (s *Store) FindDistinctProductCodes(_ context.Context, filter feed.Filter, order feed.SelectionOrder, page feed.Page) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "find:"+order.String())
	if s.Err != nil {
		return nil, s.Err
	}

	matched := s.matching(filter)
	switch order {
	case feed.SelectByCheapestOffer:
		cheapest := s.cheapest(filter)
		slices.SortFunc(matched, func(a, b feed.Product) int {
			if c := cmp.Compare(cheapest[a.EAN], cheapest[b.EAN]); c != 0 {
				return c
			}
			return cmp.Compare(a.EAN, b.EAN)
		})
	default:
		slices.SortFunc(matched, func(a, b feed.Product) int {
			if c := strings.Compare(a.Name, b.Name); c != 0 {
				return c
			}
			return cmp.Compare(a.EAN, b.EAN)
		})
	}

	if page.Offset >= len(matched) {
		return []int64{}, nil
	}
	end := min(page.Offset+page.Limit, len(matched))
	codes := make([]int64, 0, end-page.Offset)
	for _, p := range matched[page.Offset:end] {
		codes = append(codes, p.EAN)
	}
	return codes, nil
}

func (s *Store) CountDistinct(_ context.Context, filter feed.Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "count")
	if s.Err != nil {
		return 0, s.Err
	}
	return int64(len(s.matching(filter))), nil
}

func (s *Store) FetchProductsWithOffers(_ context.Context, codes []int64) ([]feed.ProductOffers, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "fetch")
	s.lastCodes = slices.Clone(codes)
	if s.Err != nil {
		return nil, s.Err
	}

	// Reverse the requested order so callers cannot rely on it.
	out := make([]feed.ProductOffers, 0, len(codes))
	for i := len(codes) - 1; i >= 0; i-- {
		p, ok := s.products[codes[i]]
		if !ok {
			continue
		}
		po := feed.ProductOffers{Product: p}
		for _, o := range s.offers {
			if o.Offer.ProductEAN == p.EAN {
				po.Offers = append(po.Offers, o)
			}
		}
		out = append(out, po)
	}
	return out, nil
}

// Categories returns the distinct non-empty categories, sorted.
func (s *Store) Categories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []string{}
	for _, p := range s.products {
		if p.Category != "" && !slices.Contains(out, p.Category) {
			out = append(out, p.Category)
		}
	}
	slices.Sort(out)
	return out, nil
}

// Merchants returns every merchant that owns an offer, by id.
func (s *Store) Merchants(_ context.Context) ([]feed.Merchant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []feed.Merchant{}
	for _, o := range s.offers {
		if !slices.Contains(out, o.Merchant) {
			out = append(out, o.Merchant)
		}
	}
	slices.SortFunc(out, func(a, b feed.Merchant) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// matching returns products that have at least one offer row satisfying
// filter, mirroring the inner joins of the SQL store.
func (s *Store) matching(filter feed.Filter) []feed.Product {
	seen := make(map[int64]bool)
	var out []feed.Product
	for _, o := range s.offers {
		p, ok := s.products[o.Offer.ProductEAN]
		if !ok || seen[p.EAN] || !s.matches(p, o, filter) {
			continue
		}
		seen[p.EAN] = true
		out = append(out, p)
	}
	return out
}

func (s *Store) cheapest(filter feed.Filter) map[int64]float64 {
	out := make(map[int64]float64)
	for _, o := range s.offers {
		p, ok := s.products[o.Offer.ProductEAN]
		if !ok || !s.matches(p, o, filter) {
			continue
		}
		if cur, ok := out[p.EAN]; !ok || o.Offer.Price < cur {
			out[p.EAN] = o.Offer.Price
		}
	}
	return out
}

func (s *Store) matches(p feed.Product, o feed.RawOffer, filter feed.Filter) bool {
	if filter.Search != "" && !s.contains(p.Name, filter.Search) && !s.contains(p.Category, filter.Search) {
		return false
	}
	if filter.Category != "" && !s.contains(p.Category, filter.Category) {
		return false
	}
	if len(filter.MerchantIDs) > 0 && !slices.Contains(filter.MerchantIDs, o.Merchant.ID) {
		return false
	}
	return true
}

func (s *Store) contains(haystack, needle string) bool {
	return strings.Contains(s.fold.String(haystack), s.fold.String(needle))
}
