// internal/models/product.go
package models

import "time"

type Product struct {
	EAN       int64     `json:"ean" gorm:"primaryKey;autoIncrement:false"`
	Name      string    `json:"name" gorm:"size:255;not null;index"`
	Category  string    `json:"category" gorm:"size:100;index"`
	Weight    float64   `json:"weight" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Stocks []ProductStock `json:"stocks,omitempty" gorm:"foreignKey:ProductEAN;references:EAN"`
}

// Stock is a merchant-owned location holding inventory.
type Stock struct {
	BaseModel
	Address    string  `json:"address" gorm:"size:500;not null"`
	Lat        float64 `json:"lat" gorm:"not null"`
	Long       float64 `json:"long" gorm:"not null"`
	MerchantID uint    `json:"merchant_id" gorm:"not null;index"`

	// Relationships
	Merchant Merchant       `json:"merchant,omitempty" gorm:"foreignKey:MerchantID"`
	Products []ProductStock `json:"products,omitempty" gorm:"foreignKey:StockID"`
}

// ProductStock is one offer: a product at a stock with a price and quantity.
type ProductStock struct {
	SKUID      uint      `json:"sku_id" gorm:"column:sku_id;primaryKey"`
	ProductEAN int64     `json:"product_ean" gorm:"not null;index"`
	StockID    uint      `json:"stock_id" gorm:"not null;index"`
	Price      float64   `json:"price" gorm:"not null"`
	Amount     int       `json:"amount" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductEAN;references:EAN"`
	Stock   Stock   `json:"stock,omitempty" gorm:"foreignKey:StockID"`
}

func (ProductStock) TableName() string {
	return "products_stock"
}
