// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/geomarket/internal/feed"
	"github.com/javajoker/geomarket/internal/i18n"
	"github.com/javajoker/geomarket/internal/services"
	"github.com/javajoker/geomarket/internal/utils"
)

// respondError maps service errors onto the error envelope. Anything it
// does not recognise is logged and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var insufficient *services.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		utils.ErrorResponse(c, http.StatusConflict, i18n.T(lang, i18n.KeyInsufficientStock, insufficient.Available), gin.H{
			"sku_id":    insufficient.SKUID,
			"requested": insufficient.Requested,
			"available": insufficient.Available,
		})

	case errors.Is(err, feed.ErrProductNotFound):
		utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyProductNotFound))
	case errors.Is(err, services.ErrCartNotFound):
		utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyCartNotFound))
	case errors.Is(err, services.ErrOrderNotFound):
		utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyOrderNotFound))
	case errors.Is(err, services.ErrOrderItemMissing):
		utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyItemNotFound))
	case errors.Is(err, services.ErrSKUNotFound):
		utils.NotFoundResponse(c, i18n.T(lang, i18n.KeySKUNotFound))
	case errors.Is(err, services.ErrStockLineNotFound):
		utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyStockLineNotFound))

	case errors.Is(err, services.ErrOrderNotOwned):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyOrderNotOwned))
	case errors.Is(err, services.ErrStockNotOwned):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyStockNotOwned))

	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))

	case errors.Is(err, services.ErrUserExists):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyAuthUserExists))
	case errors.Is(err, services.ErrMerchantExists):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyAuthMerchantExists))
	case errors.Is(err, services.ErrProductExists):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyProductExists))
	case errors.Is(err, services.ErrStockLineExists):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyStockLineExists))
	case errors.Is(err, services.ErrOrderConfirmed):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyOrderConfirmed))
	case errors.Is(err, services.ErrCartEmpty):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyOrderEmpty))

	default:
		utils.InternalErrorResponse(c, err)
	}
}

// bindJSON decodes and validates the request body, answering 400 or 422
// itself when it returns false.
func bindJSON(c *gin.Context, req interface{}) bool {
	lang := utils.GetLangFromContext(c)

	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

// subjectID returns the authenticated subject, answering 401 when absent.
func subjectID(c *gin.Context) (uint, bool) {
	id, ok := utils.GetSubjectIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
	}
	return id, ok
}

// uintParam parses a positive path parameter, answering 400 on failure.
func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := utils.ParseUintParam(c, name)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyValidationInvalid, name), nil)
		return 0, false
	}
	return id, true
}
