// internal/feed/offers.go
package feed

import "github.com/javajoker/geomarket/internal/geo"

// Aggregate turns a hydrated product's raw offers into RankedOffers.
// Offers with no remaining quantity are dropped. Distance and address are
// only filled in when a viewer is given.
func Aggregate(p ProductOffers, viewer *Coordinates) []RankedOffer {
	offers := make([]RankedOffer, 0, len(p.Offers))
	for _, raw := range p.Offers {
		if raw.Offer.Amount <= 0 {
			continue
		}

		offer := RankedOffer{
			SKUID:        raw.Offer.SKUID,
			Price:        raw.Offer.Price,
			Amount:       raw.Offer.Amount,
			MerchantID:   raw.Merchant.ID,
			MerchantName: raw.Merchant.Name,
			StockID:      raw.Location.ID,
			StockLat:     raw.Location.Lat,
			StockLong:    raw.Location.Long,
		}

		if viewer != nil {
			address := raw.Location.Address
			distance := geo.RoundKm(geo.HaversineKm(viewer.Lat, viewer.Long, raw.Location.Lat, raw.Location.Long))
			offer.StockAddress = &address
			offer.DistanceKm = &distance
		}

		offers = append(offers, offer)
	}
	return offers
}

// PriceSpan returns the lowest and highest price among offers.
// It returns zeros for an empty slice.
func PriceSpan(offers []RankedOffer) (minPrice, maxPrice float64) {
	for i, o := range offers {
		if i == 0 || o.Price < minPrice {
			minPrice = o.Price
		}
		if i == 0 || o.Price > maxPrice {
			maxPrice = o.Price
		}
	}
	return minPrice, maxPrice
}
