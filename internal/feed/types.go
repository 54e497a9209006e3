// internal/feed/types.go
package feed

import "strings"

// Policy selects how offers inside a product are ordered and, for the
// feed, how products are selected and presented.
type Policy string

const (
	PolicyPrice     Policy = "price"
	PolicyDistance  Policy = "distance"
	PolicyBestValue Policy = "best_value"
	PolicyName      Policy = "name"
)

// ParsePolicy maps a sort_by value to a Policy. Empty input yields price.
// Unknown values are returned as-is; the ranker treats them as price.
func ParsePolicy(s string) Policy {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return PolicyPrice
	}
	return Policy(s)
}

// NeedsViewer reports whether the policy depends on viewer coordinates.
func (p Policy) NeedsViewer() bool {
	return p == PolicyDistance || p == PolicyBestValue
}

// Coordinates is a WGS84 point. A nil *Coordinates means no viewer.
type Coordinates struct {
	Lat  float64
	Long float64
}

type Product struct {
	EAN      int64
	Name     string
	Category string
	Weight   float64
}

type StockOffer struct {
	SKUID      int64
	ProductEAN int64
	StockID    int64
	Price      float64
	Amount     int
}

type StockLocation struct {
	ID         int64
	Address    string
	Lat        float64
	Long       float64
	MerchantID int64
}

type Merchant struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RawOffer is a stock line joined with the location and merchant that own it.
type RawOffer struct {
	Offer    StockOffer
	Location StockLocation
	Merchant Merchant
}

// ProductOffers is a hydrated product as returned by a CatalogStore.
type ProductOffers struct {
	Product Product
	Offers  []RawOffer
}

// RankedOffer is the buyer-facing view of one offer.
type RankedOffer struct {
	SKUID        int64    `json:"sku_id"`
	Price        float64  `json:"price"`
	Amount       int      `json:"amount"`
	MerchantID   int64    `json:"merchant_id"`
	MerchantName string   `json:"merchant_name"`
	StockID      int64    `json:"stock_id"`
	StockAddress *string  `json:"stock_address"`
	StockLat     float64  `json:"stock_lat"`
	StockLong    float64  `json:"stock_long"`
	DistanceKm   *float64 `json:"distance_km"`
}

// FeedEntry is one product in the feed with its ranked offers.
type FeedEntry struct {
	EAN       int64         `json:"ean"`
	Name      string        `json:"name"`
	Category  string        `json:"category"`
	Weight    float64       `json:"weight"`
	Offers    []RankedOffer `json:"offers"`
	BestOffer RankedOffer   `json:"best_offer"`
	MinPrice  float64       `json:"min_price"`
	MaxPrice  float64       `json:"max_price"`
}

// Filter restricts which products qualify. Zero values mean no restriction.
type Filter struct {
	Search      string
	Category    string
	MerchantIDs []int64
}

type Page struct {
	Offset int
	Limit  int
}

// SelectionOrder is the order in which a CatalogStore returns product codes.
type SelectionOrder int

const (
	// SelectByName orders by product name, ties by EAN.
	SelectByName SelectionOrder = iota
	// SelectByCheapestOffer orders by each product's lowest offer price, ties by EAN.
	SelectByCheapestOffer
)

func (o SelectionOrder) String() string {
	switch o {
	case SelectByCheapestOffer:
		return "cheapest_offer"
	default:
		return "name"
	}
}

// SelectionOrderFor returns the pre-pagination order used for a policy.
func SelectionOrderFor(p Policy) SelectionOrder {
	if p == PolicyPrice {
		return SelectByCheapestOffer
	}
	return SelectByName
}

type Request struct {
	Filter Filter
	Page   Page
	Policy Policy
	Viewer *Coordinates
}

type Result struct {
	Entries    []FeedEntry
	TotalCount int64
}

// ProductSummary is the product header of a single-product offers view.
type ProductSummary struct {
	EAN      int64  `json:"ean"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// ProductOffersView lists every in-stock offer of one product for a viewer.
type ProductOffersView struct {
	Product   ProductSummary `json:"product"`
	Offers    []RankedOffer  `json:"offers"`
	BestOffer *RankedOffer   `json:"best_offer"`
}
