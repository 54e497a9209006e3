// internal/services/catalog_store.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/javajoker/geomarket/internal/feed"
	"github.com/javajoker/geomarket/internal/models"
)

// CatalogReader is the catalog read model behind the product endpoints.
type CatalogReader interface {
	feed.CatalogStore
	Categories(ctx context.Context) ([]string, error)
	Merchants(ctx context.Context) ([]feed.Merchant, error)
}

// CatalogStore reads products, stock lines and merchants from Postgres.
type CatalogStore struct {
	db *gorm.DB
}

func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

var _ CatalogReader = (*CatalogStore)(nil)

// filtered joins products to their stock lines and locations and applies
// the feed filters. Rows are per offer, so callers must group or distinct.
func (s *CatalogStore) filtered(ctx context.Context, filter feed.Filter) *gorm.DB {
	q := s.db.WithContext(ctx).
		Table("products").
		Joins("JOIN products_stock ON products_stock.product_ean = products.ean").
		Joins("JOIN stocks ON stocks.id = products_stock.stock_id")

	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		q = q.Where("(products.name ILIKE ? OR products.category ILIKE ?)", pattern, pattern)
	}
	if filter.Category != "" {
		q = q.Where("products.category ILIKE ?", likePattern(filter.Category))
	}
	if len(filter.MerchantIDs) > 0 {
		q = q.Where("stocks.merchant_id = ANY(?)", pq.Array(filter.MerchantIDs))
	}
	return q
}

func (s *CatalogStore) CountDistinct(ctx context.Context, filter feed.Filter) (int64, error) {
	var total int64
	if err := s.filtered(ctx, filter).Distinct("products.ean").Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

func (s *CatalogStore) FindDistinctProductCodes(ctx context.Context, filter feed.Filter, order feed.SelectionOrder, page feed.Page) ([]int64, error) {
	q := s.filtered(ctx, filter).Select("products.ean AS ean")

	switch order {
	case feed.SelectByCheapestOffer:
		q = q.Group("products.ean").
			Order("MIN(products_stock.price) ASC").
			Order("products.ean ASC")
	default:
		q = q.Group("products.ean, products.name").
			Order("products.name ASC").
			Order("products.ean ASC")
	}

	var rows []struct{ EAN int64 }
	if err := q.Offset(page.Offset).Limit(page.Limit).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to select product codes: %w", err)
	}

	codes := make([]int64, len(rows))
	for i, r := range rows {
		codes[i] = r.EAN
	}
	return codes, nil
}

func (s *CatalogStore) FetchProductsWithOffers(ctx context.Context, codes []int64) ([]feed.ProductOffers, error) {
	if len(codes) == 0 {
		return []feed.ProductOffers{}, nil
	}

	var products []models.Product
	err := s.db.WithContext(ctx).
		Preload("Stocks", func(db *gorm.DB) *gorm.DB {
			return db.Order("products_stock.sku_id ASC")
		}).
		Preload("Stocks.Stock.Merchant").
		Where("ean IN ?", codes).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	out := make([]feed.ProductOffers, len(products))
	for i := range products {
		out[i] = toProductOffers(&products[i])
	}
	return out, nil
}

func (s *CatalogStore) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category IS NOT NULL AND category <> ''").
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CatalogStore) Merchants(ctx context.Context) ([]feed.Merchant, error) {
	var merchants []models.Merchant
	if err := s.db.WithContext(ctx).Select("id", "name").Order("id ASC").Find(&merchants).Error; err != nil {
		return nil, fmt.Errorf("failed to list merchants: %w", err)
	}

	out := make([]feed.Merchant, len(merchants))
	for i, m := range merchants {
		out[i] = feed.Merchant{ID: int64(m.ID), Name: m.Name}
	}
	return out, nil
}

func toProductOffers(p *models.Product) feed.ProductOffers {
	po := feed.ProductOffers{
		Product: feed.Product{
			EAN:      p.EAN,
			Name:     p.Name,
			Category: p.Category,
			Weight:   p.Weight,
		},
		Offers: make([]feed.RawOffer, 0, len(p.Stocks)),
	}

	for _, line := range p.Stocks {
		po.Offers = append(po.Offers, feed.RawOffer{
			Offer: feed.StockOffer{
				SKUID:      int64(line.SKUID),
				ProductEAN: line.ProductEAN,
				StockID:    int64(line.StockID),
				Price:      line.Price,
				Amount:     line.Amount,
			},
			Location: feed.StockLocation{
				ID:         int64(line.Stock.ID),
				Address:    line.Stock.Address,
				Lat:        line.Stock.Lat,
				Long:       line.Stock.Long,
				MerchantID: int64(line.Stock.MerchantID),
			},
			Merchant: feed.Merchant{
				ID:   int64(line.Stock.Merchant.ID),
				Name: line.Stock.Merchant.Name,
			},
		})
	}
	return po
}

// likePattern wraps term for a substring ILIKE, escaping wildcards.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}
