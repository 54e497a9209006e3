// internal/feed/ranker.go
package feed

import (
	"cmp"
	"fmt"
	"slices"
)

// Weights controls the best_value blend of normalized price and distance.
type Weights struct {
	Price    float64
	Distance float64
}

// DefaultWeights favours price over proximity 70/30.
var DefaultWeights = Weights{Price: 0.7, Distance: 0.3}

func (w Weights) Validate() error {
	if w.Price < 0 || w.Distance < 0 {
		return fmt.Errorf("feed weights must not be negative (price=%v, distance=%v)", w.Price, w.Distance)
	}
	if w.Price+w.Distance == 0 {
		return fmt.Errorf("feed weights must not both be zero")
	}
	return nil
}

// Ranker orders a product's offers under a Policy. It holds no mutable
// state and is safe for concurrent use.
type Ranker struct {
	weights Weights
}

func NewRanker(w Weights) *Ranker {
	return &Ranker{weights: w}
}

// Rank returns a new slice ordered by policy; the input is not modified.
// The first element is the best offer. Distance-based policies fall back
// to price ordering when there is no viewer or no offer carries a distance.
func (r *Ranker) Rank(offers []RankedOffer, policy Policy, viewer *Coordinates) []RankedOffer {
	switch policy {
	case PolicyDistance:
		if viewer != nil {
			if candidates := withDistance(offers); len(candidates) > 0 {
				slices.SortStableFunc(candidates, func(a, b RankedOffer) int {
					return cmp.Compare(*a.DistanceKm, *b.DistanceKm)
				})
				return candidates
			}
		}
	case PolicyBestValue:
		if viewer != nil {
			if candidates := withDistance(offers); len(candidates) > 0 {
				return r.byBestValue(candidates)
			}
		}
	}
	return byPrice(offers)
}

// Score is the best_value score of one offer given the candidate maxima.
// Lower is better. A zero maximum contributes nothing.
func (r *Ranker) Score(price, distance, maxPrice, maxDistance float64) float64 {
	var score float64
	if maxPrice > 0 {
		score += r.weights.Price * (price / maxPrice)
	}
	if maxDistance > 0 {
		score += r.weights.Distance * (distance / maxDistance)
	}
	return score
}

func (r *Ranker) byBestValue(candidates []RankedOffer) []RankedOffer {
	var maxPrice, maxDistance float64
	for _, o := range candidates {
		maxPrice = max(maxPrice, o.Price)
		maxDistance = max(maxDistance, *o.DistanceKm)
	}

	type scored struct {
		offer RankedOffer
		score float64
	}
	scoredOffers := make([]scored, len(candidates))
	for i, o := range candidates {
		scoredOffers[i] = scored{offer: o, score: r.Score(o.Price, *o.DistanceKm, maxPrice, maxDistance)}
	}
	slices.SortStableFunc(scoredOffers, func(a, b scored) int {
		return cmp.Compare(a.score, b.score)
	})

	ranked := make([]RankedOffer, len(scoredOffers))
	for i, s := range scoredOffers {
		ranked[i] = s.offer
	}
	return ranked
}

func byPrice(offers []RankedOffer) []RankedOffer {
	ranked := slices.Clone(offers)
	slices.SortStableFunc(ranked, func(a, b RankedOffer) int {
		return cmp.Compare(a.Price, b.Price)
	})
	return ranked
}

func withDistance(offers []RankedOffer) []RankedOffer {
	out := make([]RankedOffer, 0, len(offers))
	for _, o := range offers {
		if o.DistanceKm != nil {
			out = append(out, o)
		}
	}
	return out
}
