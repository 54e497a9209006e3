// internal/handlers/order.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/geomarket/internal/i18n"
	"github.com/javajoker/geomarket/internal/services"
	"github.com/javajoker/geomarket/internal/utils"
)

const defaultOrdersLimit = 50

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// POST /cart
func (h *OrderHandler) CreateCart(c *gin.Context) {
	userID, ok := subjectID(c)
	if !ok {
		return
	}

	cart, created, err := h.orderService.CreateCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	lang := utils.GetLangFromContext(c)
	if !created {
		utils.SuccessResponse(c, i18n.T(lang, i18n.KeyCartSuccess), cart)
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyCartCreated), cart)
}

// GET /cart
func (h *OrderHandler) GetCart(c *gin.Context) {
	userID, ok := subjectID(c)
	if !ok {
		return
	}

	cart, err := h.orderService.Cart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyCartSuccess), cart)
}

// POST /order
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, ok := subjectID(c)
	if !ok {
		return
	}

	var req services.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Checkout(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyOrderCreated), order)
}

// GET /orders/:order_id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := subjectID(c)
	if !ok {
		return
	}
	orderID, ok := uintParam(c, "order_id")
	if !ok {
		return
	}

	order, err := h.orderService.Order(c.Request.Context(), userID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyOrderSuccess), order)
}

// GET /users/orders
func (h *OrderHandler) GetUserOrders(c *gin.Context) {
	userID, ok := subjectID(c)
	if !ok {
		return
	}

	params, errs := utils.GetPaginationParams(c, defaultOrdersLimit)
	if len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs)
		return
	}

	orders, total, err := h.orderService.UserOrders(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SetPaginationHeaders(c, total, params)
	utils.SuccessResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyOrdersSuccess), gin.H{
		"orders":      orders,
		"total_count": total,
		"offset":      params.Offset,
		"limit":       params.Limit,
	})
}

// DELETE /orders/:order_id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	userID, ok := subjectID(c)
	if !ok {
		return
	}
	orderID, ok := uintParam(c, "order_id")
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), userID, orderID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyOrderDeleted), nil)
}

// POST /orders/:order_id/items
func (h *OrderHandler) AddItem(c *gin.Context) {
	userID, ok := subjectID(c)
	if !ok {
		return
	}
	orderID, ok := uintParam(c, "order_id")
	if !ok {
		return
	}

	var req services.AddItemRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.AddItem(c.Request.Context(), userID, orderID, &req)
	if err != nil {
		respondItemError(c, err)
		return
	}

	utils.CreatedResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyItemAdded), order)
}

// GET /orders/:order_id/items
func (h *OrderHandler) GetItems(c *gin.Context) {
	userID, ok := subjectID(c)
	if !ok {
		return
	}
	orderID, ok := uintParam(c, "order_id")
	if !ok {
		return
	}

	order, err := h.orderService.Items(c.Request.Context(), userID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyItemsSuccess), gin.H{
		"items":        order.Items,
		"total_price":  order.TotalPrice,
		"total_amount": order.TotalAmount,
		"total_items":  order.TotalItems,
	})
}

// PUT /order-items/:item_id
func (h *OrderHandler) UpdateItem(c *gin.Context) {
	userID, ok := subjectID(c)
	if !ok {
		return
	}
	itemID, ok := uintParam(c, "item_id")
	if !ok {
		return
	}

	var req services.UpdateItemRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateItem(c.Request.Context(), userID, itemID, &req)
	if err != nil {
		respondItemError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyItemUpdated), order)
}

// DELETE /order-items/:item_id
func (h *OrderHandler) DeleteItem(c *gin.Context) {
	userID, ok := subjectID(c)
	if !ok {
		return
	}
	itemID, ok := uintParam(c, "item_id")
	if !ok {
		return
	}

	order, err := h.orderService.DeleteItem(c.Request.Context(), userID, itemID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyItemDeleted), order)
}

// respondItemError answers a short stock line with 400. Checkout reports
// the same condition as 409 through respondError.
func respondItemError(c *gin.Context, err error) {
	var insufficient *services.InsufficientStockError
	if errors.As(err, &insufficient) {
		utils.ErrorResponse(c, http.StatusBadRequest,
			i18n.T(utils.GetLangFromContext(c), i18n.KeyInsufficientStock, insufficient.Available), gin.H{
				"sku_id":    insufficient.SKUID,
				"requested": insufficient.Requested,
				"available": insufficient.Available,
			})
		return
	}
	respondError(c, err)
}
