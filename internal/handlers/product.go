// internal/handlers/product.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/geomarket/internal/config"
	"github.com/javajoker/geomarket/internal/feed"
	"github.com/javajoker/geomarket/internal/i18n"
	"github.com/javajoker/geomarket/internal/services"
	"github.com/javajoker/geomarket/internal/utils"
)

type ProductHandler struct {
	feedService *services.FeedService
	feedConfig  config.FeedConfig
}

type feedQuery struct {
	SortBy      string   `form:"sort_by" validate:"omitempty,oneof=price distance best_value name"`
	Search      string   `form:"search" validate:"max=100"`
	Category    string   `form:"category" validate:"max=100"`
	MerchantIDs string   `form:"merchant_ids"`
	UserLat     *float64 `form:"user_lat" validate:"omitempty,latitude"`
	UserLong    *float64 `form:"user_long" validate:"omitempty,longitude"`
}

type searchQuery struct {
	Q string `form:"q" validate:"required,max=100"`
}

type offersQuery struct {
	UserLat  *float64 `form:"user_lat" validate:"required,latitude"`
	UserLong *float64 `form:"user_long" validate:"required,longitude"`
}

// feedPage is the data payload of feed-shaped responses.
type feedPage struct {
	Products   []feed.FeedEntry `json:"products"`
	TotalCount int64            `json:"total_count"`
	Offset     int              `json:"offset"`
	Limit      int              `json:"limit"`
}

func NewProductHandler(feedService *services.FeedService, feedConfig config.FeedConfig) *ProductHandler {
	return &ProductHandler{
		feedService: feedService,
		feedConfig:  feedConfig,
	}
}

// GET /products/feed
func (h *ProductHandler) GetFeed(c *gin.Context) {
	var q feedQuery
	if !bindQuery(c, &q, func() {
		q.SortBy = strings.ToLower(strings.TrimSpace(q.SortBy))
		q.Search = strings.TrimSpace(q.Search)
		q.Category = strings.TrimSpace(q.Category)
	}) {
		return
	}

	params, ok := h.pagination(c)
	if !ok {
		return
	}

	merchantIDs, err := utils.ParseIDList(q.MerchantIDs)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyInvalidMerchantIDs), err.Error())
		return
	}

	var viewer *feed.Coordinates
	if q.UserLat != nil && q.UserLong != nil {
		viewer = &feed.Coordinates{Lat: *q.UserLat, Long: *q.UserLong}
	}

	result, err := h.feedService.Feed(c.Request.Context(), services.FeedRequest{
		Filter: feed.Filter{
			Search:      q.Search,
			Category:    q.Category,
			MerchantIDs: merchantIDs,
		},
		Page:   feed.Page{Offset: params.Offset, Limit: params.Limit},
		Policy: feed.ParsePolicy(q.SortBy),
		Viewer: viewer,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondPage(c, result, params)
}

// GET /products/search
func (h *ProductHandler) Search(c *gin.Context) {
	var q searchQuery
	if !bindQuery(c, &q, func() { q.Q = strings.TrimSpace(q.Q) }) {
		return
	}

	params, ok := h.pagination(c)
	if !ok {
		return
	}

	result, err := h.feedService.Search(c.Request.Context(), q.Q, feed.Page{Offset: params.Offset, Limit: params.Limit})
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondPage(c, result, params)
}

// GET /products/:ean/offers
func (h *ProductHandler) GetOffers(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	ean, err := strconv.ParseInt(c.Param("ean"), 10, 64)
	if err != nil || ean <= 0 {
		utils.ValidationErrorResponse(c, []utils.ValidationError{{
			Field:   "ean",
			Tag:     "ean",
			Message: "ean must be a positive integer",
		}})
		return
	}

	var q offersQuery
	if !bindQuery(c, &q, nil) {
		return
	}

	view, err := h.feedService.ProductOffers(c.Request.Context(), ean, feed.Coordinates{Lat: *q.UserLat, Long: *q.UserLong})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(lang, i18n.KeyOffersSuccess), view)
}

// GET /products/categories
func (h *ProductHandler) GetCategories(c *gin.Context) {
	categories, err := h.feedService.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyCategoriesSuccess), gin.H{
		"categories": categories,
	})
}

// GET /products/merchants
func (h *ProductHandler) GetMerchants(c *gin.Context) {
	merchants, err := h.feedService.Merchants(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyMerchantsSuccess), gin.H{
		"merchants": merchants,
	})
}

func (h *ProductHandler) pagination(c *gin.Context) (utils.PaginationParams, bool) {
	params, errs := utils.GetPaginationParams(c, h.feedConfig.DefaultLimit)
	if len(errs) == 0 && h.feedConfig.MaxLimit > 0 && params.Limit > h.feedConfig.MaxLimit {
		errs = append(errs, utils.ValidationError{
			Field:   "limit",
			Tag:     "max",
			Message: "limit must be at most " + strconv.Itoa(h.feedConfig.MaxLimit),
		})
	}
	if len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs)
		return params, false
	}
	return params, true
}

func (h *ProductHandler) respondPage(c *gin.Context, result feed.Result, params utils.PaginationParams) {
	utils.SetPaginationHeaders(c, result.TotalCount, params)
	utils.SuccessResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyFeedSuccess), feedPage{
		Products:   result.Entries,
		TotalCount: result.TotalCount,
		Offset:     params.Offset,
		Limit:      params.Limit,
	})
}

// bindQuery binds and validates query parameters. normalize, when set, runs
// between binding and validation.
func bindQuery(c *gin.Context, q interface{}, normalize func()) bool {
	if err := c.ShouldBindQuery(q); err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity,
			i18n.T(utils.GetLangFromContext(c), i18n.KeyValidationInvalid, "query"), err.Error())
		return false
	}
	if normalize != nil {
		normalize()
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(q)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}
