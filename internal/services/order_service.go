// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/geomarket/internal/database"
	"github.com/javajoker/geomarket/internal/metrics"
	"github.com/javajoker/geomarket/internal/models"
	"github.com/javajoker/geomarket/internal/utils"
)

// OrderService handles a user's cart and order history. A cart is an order
// that is still unconfirmed; checkout confirms it.
type OrderService struct {
	db *gorm.DB
}

type CheckoutRequest struct {
	DeliveryMethod models.DeliveryMethod `json:"delivery_method" validate:"required,oneof=courier pickup"`
	Address        string                `json:"address" validate:"required,max=500"`
}

type AddItemRequest struct {
	SKUID    uint `json:"sku_id" validate:"required"`
	Quantity int  `json:"quantity" validate:"required,min=1"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type OrderItemView struct {
	ID         uint    `json:"id"`
	SKUID      uint    `json:"sku_id"`
	EAN        int64   `json:"ean"`
	Name       string  `json:"name"`
	StockID    uint    `json:"stock_id"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
}

type OrderView struct {
	ID             uint                  `json:"id"`
	UserID         uint                  `json:"user_id"`
	Status         models.OrderStatus    `json:"status"`
	DeliveryMethod models.DeliveryMethod `json:"delivery_method,omitempty"`
	Address        string                `json:"address,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	Items          []OrderItemView       `json:"items"`
	TotalPrice     float64               `json:"total_price"`
	TotalAmount    int                   `json:"total_amount"`
	TotalItems     int                   `json:"total_items"`
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// CreateCart opens a cart for the user. An existing cart is returned as is,
// with created reporting false.
func (s *OrderService) CreateCart(ctx context.Context, userID uint) (view *OrderView, created bool, err error) {
	db := s.db.WithContext(ctx)

	cart, err := s.loadCart(db, userID)
	if err == nil {
		return toOrderView(cart), false, nil
	}
	if !errors.Is(err, ErrCartNotFound) {
		return nil, false, err
	}

	order := &models.Order{UserID: userID, Status: models.OrderStatusUnconfirmed}
	if err := db.Create(order).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create cart: %w", err)
	}
	return toOrderView(order), true, nil
}

func (s *OrderService) Cart(ctx context.Context, userID uint) (*OrderView, error) {
	cart, err := s.loadCart(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	return toOrderView(cart), nil
}

// Checkout confirms the user's cart and takes its quantities out of stock.
// Stock lines are locked for the duration of the transaction.
func (s *OrderService) Checkout(ctx context.Context, userID uint, req *CheckoutRequest) (*OrderView, error) {
	var cartID uint

	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		var cart models.Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND status = ?", userID, models.OrderStatusUnconfirmed).
			Order("id DESC").
			First(&cart).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}
		cartID = cart.ID

		var items []models.OrderItem
		if err := tx.Where("order_id = ?", cart.ID).Find(&items).Error; err != nil {
			return fmt.Errorf("failed to load cart items: %w", err)
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}

		wanted := make(map[uint]int, len(items))
		skuIDs := make([]uint, 0, len(items))
		for _, item := range items {
			if _, ok := wanted[item.SKUID]; !ok {
				skuIDs = append(skuIDs, item.SKUID)
			}
			wanted[item.SKUID] += item.Quantity
		}

		var lines []models.ProductStock
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("sku_id IN ?", skuIDs).
			Order("sku_id ASC").
			Find(&lines).Error
		if err != nil {
			return fmt.Errorf("failed to lock stock lines: %w", err)
		}

		available := make(map[uint]int, len(lines))
		for _, line := range lines {
			available[line.SKUID] = line.Amount
		}
		for _, sku := range skuIDs {
			if available[sku] < wanted[sku] {
				return &InsufficientStockError{SKUID: sku, Requested: wanted[sku], Available: available[sku]}
			}
		}

		for _, sku := range skuIDs {
			err := tx.Model(&models.ProductStock{}).
				Where("sku_id = ?", sku).
				Update("amount", gorm.Expr("amount - ?", wanted[sku])).Error
			if err != nil {
				return fmt.Errorf("failed to decrement stock: %w", err)
			}
		}

		return tx.Model(&cart).Updates(map[string]interface{}{
			"status":          models.OrderStatusConfirmed,
			"delivery_method": req.DeliveryMethod,
			"address":         req.Address,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.OrderCheckedOut()
	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"order_id": cartID,
	}).Info("Order checked out")

	order, err := s.loadOrder(s.db.WithContext(ctx), cartID)
	if err != nil {
		return nil, err
	}
	return toOrderView(order), nil
}

func (s *OrderService) Order(ctx context.Context, userID, orderID uint) (*OrderView, error) {
	order, err := s.ownedOrder(s.db.WithContext(ctx), userID, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderView(order), nil
}

// UserOrders lists the user's orders, newest first.
func (s *OrderService) UserOrders(ctx context.Context, userID uint, params utils.PaginationParams) ([]OrderView, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	err := utils.ApplyPagination(withItems(db), params).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	views := make([]OrderView, len(orders))
	for i := range orders {
		views[i] = *toOrderView(&orders[i])
	}
	return views, total, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, userID, orderID uint) error {
	return database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if _, err := s.ownedOrder(tx, userID, orderID); err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		if err := tx.Delete(&models.Order{}, orderID).Error; err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return nil
	})
}

// AddItem puts a stock line into an unconfirmed order. Adding a SKU that is
// already in the order raises its quantity.
func (s *OrderService) AddItem(ctx context.Context, userID, orderID uint, req *AddItemRequest) (*OrderView, error) {
	db := s.db.WithContext(ctx)

	order, err := s.ownedOrder(db, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusUnconfirmed {
		return nil, ErrOrderConfirmed
	}

	var existing *models.OrderItem
	for i := range order.Items {
		if order.Items[i].SKUID == req.SKUID {
			existing = &order.Items[i]
			break
		}
	}

	quantity := req.Quantity
	if existing != nil {
		quantity += existing.Quantity
	}
	if err := s.checkStock(db, req.SKUID, quantity); err != nil {
		return nil, err
	}

	if existing != nil {
		err = db.Model(existing).Update("quantity", quantity).Error
	} else {
		err = db.Create(&models.OrderItem{OrderID: orderID, SKUID: req.SKUID, Quantity: quantity}).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save order item: %w", err)
	}

	return s.Order(ctx, userID, orderID)
}

func (s *OrderService) Items(ctx context.Context, userID, orderID uint) (*OrderView, error) {
	return s.Order(ctx, userID, orderID)
}

func (s *OrderService) UpdateItem(ctx context.Context, userID, itemID uint, req *UpdateItemRequest) (*OrderView, error) {
	db := s.db.WithContext(ctx)

	item, order, err := s.ownedItem(db, userID, itemID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusUnconfirmed {
		return nil, ErrOrderConfirmed
	}
	if err := s.checkStock(db, item.SKUID, req.Quantity); err != nil {
		return nil, err
	}

	if err := db.Model(item).Update("quantity", req.Quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to update order item: %w", err)
	}
	return s.Order(ctx, userID, order.ID)
}

func (s *OrderService) DeleteItem(ctx context.Context, userID, itemID uint) (*OrderView, error) {
	db := s.db.WithContext(ctx)

	item, order, err := s.ownedItem(db, userID, itemID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusUnconfirmed {
		return nil, ErrOrderConfirmed
	}

	if err := db.Delete(item).Error; err != nil {
		return nil, fmt.Errorf("failed to delete order item: %w", err)
	}
	return s.Order(ctx, userID, order.ID)
}

func (s *OrderService) checkStock(db *gorm.DB, skuID uint, quantity int) error {
	var line models.ProductStock
	if err := db.Select("sku_id", "amount").First(&line, "sku_id = ?", skuID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSKUNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}
	if line.Amount < quantity {
		return &InsufficientStockError{SKUID: skuID, Requested: quantity, Available: line.Amount}
	}
	return nil
}

func (s *OrderService) loadCart(db *gorm.DB, userID uint) (*models.Order, error) {
	var cart models.Order
	err := withItems(db).
		Where("user_id = ? AND status = ?", userID, models.OrderStatusUnconfirmed).
		Order("id DESC").
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &cart, nil
}

func (s *OrderService) loadOrder(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := withItems(db).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

func (s *OrderService) ownedOrder(db *gorm.DB, userID, orderID uint) (*models.Order, error) {
	order, err := s.loadOrder(db, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotOwned
	}
	return order, nil
}

func (s *OrderService) ownedItem(db *gorm.DB, userID, itemID uint) (*models.OrderItem, *models.Order, error) {
	var item models.OrderItem
	if err := db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrOrderItemMissing
		}
		return nil, nil, fmt.Errorf("database error: %w", err)
	}

	order, err := s.ownedOrder(db, userID, item.OrderID)
	if err != nil {
		return nil, nil, err
	}
	return &item, order, nil
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.id ASC")
		}).
		Preload("Items.ProductStock.Product")
}

func toOrderView(o *models.Order) *OrderView {
	view := &OrderView{
		ID:             o.ID,
		UserID:         o.UserID,
		Status:         o.Status,
		DeliveryMethod: o.DeliveryMethod,
		Address:        o.Address,
		CreatedAt:      o.CreatedAt,
		Items:          make([]OrderItemView, 0, len(o.Items)),
	}

	for _, item := range o.Items {
		line := item.ProductStock
		total := roundMoney(line.Price * float64(item.Quantity))
		view.Items = append(view.Items, OrderItemView{
			ID:         item.ID,
			SKUID:      item.SKUID,
			EAN:        line.ProductEAN,
			Name:       line.Product.Name,
			StockID:    line.StockID,
			Price:      line.Price,
			Quantity:   item.Quantity,
			TotalPrice: total,
		})
		view.TotalPrice += total
		view.TotalAmount += item.Quantity
	}
	view.TotalPrice = roundMoney(view.TotalPrice)
	view.TotalItems = len(view.Items)
	return view
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
