// internal/services/merchant_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/geomarket/internal/feed"
	"github.com/javajoker/geomarket/internal/models"
)

// MerchantService manages a merchant's stock locations and inventory lines.
type MerchantService struct {
	db *gorm.DB
}

type CreateStockRequest struct {
	Address string   `json:"address" validate:"required,max=500"`
	Lat     *float64 `json:"lat" validate:"required,latitude"`
	Long    *float64 `json:"long" validate:"required,longitude"`
}

type CreateProductRequest struct {
	EAN      int64   `json:"ean" validate:"required,ean"`
	Name     string  `json:"name" validate:"required,max=255"`
	Category string  `json:"category" validate:"max=100"`
	Weight   float64 `json:"weight" validate:"gte=0"`
}

type AddStockLineRequest struct {
	EAN    int64   `json:"ean" validate:"required,ean"`
	Price  float64 `json:"price" validate:"gte=0"`
	Amount int     `json:"amount" validate:"gte=0"`
}

type UpdateStockLineRequest struct {
	Price  *float64 `json:"price" validate:"omitempty,gte=0"`
	Amount *int     `json:"amount" validate:"omitempty,gte=0"`
}

func NewMerchantService(db *gorm.DB) *MerchantService {
	return &MerchantService{db: db}
}

func (s *MerchantService) CreateStock(ctx context.Context, merchantID uint, req *CreateStockRequest) (*models.Stock, error) {
	stock := &models.Stock{
		Address:    req.Address,
		Lat:        *req.Lat,
		Long:       *req.Long,
		MerchantID: merchantID,
	}
	if err := s.db.WithContext(ctx).Create(stock).Error; err != nil {
		return nil, fmt.Errorf("failed to create stock: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"merchant_id": merchantID,
		"stock_id":    stock.ID,
	}).Info("Stock created")
	return stock, nil
}

func (s *MerchantService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		EAN:      req.EAN,
		Name:     req.Name,
		Category: req.Category,
		Weight:   req.Weight,
	}
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProductExists
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// AddStockLine puts a catalog product on sale at one of the merchant's stocks.
func (s *MerchantService) AddStockLine(ctx context.Context, merchantID, stockID uint, req *AddStockLineRequest) (*models.ProductStock, error) {
	db := s.db.WithContext(ctx)

	if err := s.ownedStock(db, merchantID, stockID); err != nil {
		return nil, err
	}

	var product models.Product
	if err := db.Select("ean").First(&product, "ean = ?", req.EAN).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, feed.ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	line := &models.ProductStock{
		ProductEAN: req.EAN,
		StockID:    stockID,
		Price:      req.Price,
		Amount:     req.Amount,
	}
	if err := db.Create(line).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrStockLineExists
		}
		return nil, fmt.Errorf("failed to add stock line: %w", err)
	}
	return line, nil
}

func (s *MerchantService) UpdateStockLine(ctx context.Context, merchantID, stockID, skuID uint, req *UpdateStockLineRequest) (*models.ProductStock, error) {
	db := s.db.WithContext(ctx)

	if err := s.ownedStock(db, merchantID, stockID); err != nil {
		return nil, err
	}

	var line models.ProductStock
	if err := db.Where("sku_id = ? AND stock_id = ?", skuID, stockID).First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStockLineNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if len(updates) == 0 {
		return &line, nil
	}

	if err := db.Model(&line).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update stock line: %w", err)
	}
	if err := db.First(&line, "sku_id = ?", skuID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload stock line: %w", err)
	}
	return &line, nil
}

// ownedStock reports ErrStockNotOwned for stocks that are missing or belong
// to another merchant alike.
func (s *MerchantService) ownedStock(db *gorm.DB, merchantID, stockID uint) error {
	var count int64
	err := db.Model(&models.Stock{}).
		Where("id = ? AND merchant_id = ?", stockID, merchantID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return ErrStockNotOwned
	}
	return nil
}
