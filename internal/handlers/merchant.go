// internal/handlers/merchant.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/geomarket/internal/i18n"
	"github.com/javajoker/geomarket/internal/services"
	"github.com/javajoker/geomarket/internal/utils"
)

type MerchantHandler struct {
	merchantService *services.MerchantService
}

func NewMerchantHandler(merchantService *services.MerchantService) *MerchantHandler {
	return &MerchantHandler{
		merchantService: merchantService,
	}
}

// POST /merchant/stocks
func (h *MerchantHandler) CreateStock(c *gin.Context) {
	merchantID, ok := subjectID(c)
	if !ok {
		return
	}

	var req services.CreateStockRequest
	if !bindJSON(c, &req) {
		return
	}

	stock, err := h.merchantService.CreateStock(c.Request.Context(), merchantID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyStockCreated), gin.H{
		"stock_id": stock.ID,
		"stock":    stock,
	})
}

// POST /merchant/products
func (h *MerchantHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.merchantService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyProductCreated), product)
}

// POST /merchant/add/product/stock/:stock_id
func (h *MerchantHandler) AddStockLine(c *gin.Context) {
	merchantID, ok := subjectID(c)
	if !ok {
		return
	}
	stockID, ok := uintParam(c, "stock_id")
	if !ok {
		return
	}

	var req services.AddStockLineRequest
	if !bindJSON(c, &req) {
		return
	}

	line, err := h.merchantService.AddStockLine(c.Request.Context(), merchantID, stockID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyStockLineAdded), line)
}

// PUT /merchant/product/stock/:stock_id/:sku_id
func (h *MerchantHandler) UpdateStockLine(c *gin.Context) {
	merchantID, ok := subjectID(c)
	if !ok {
		return
	}
	stockID, ok := uintParam(c, "stock_id")
	if !ok {
		return
	}
	skuID, ok := uintParam(c, "sku_id")
	if !ok {
		return
	}

	var req services.UpdateStockLineRequest
	if !bindJSON(c, &req) {
		return
	}

	line, err := h.merchantService.UpdateStockLine(c.Request.Context(), merchantID, stockID, skuID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyStockLineUpdated), line)
}
