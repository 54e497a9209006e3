// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/geomarket/internal/i18n"
	"github.com/javajoker/geomarket/internal/services"
	"github.com/javajoker/geomarket/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// POST /user/register
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req services.UserRegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.RegisterUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAuthRegisterSuccess), resp)
}

// POST /user/sign_in
func (h *AuthHandler) SignInUser(c *gin.Context) {
	var req services.SignInRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.SignInUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAuthLoginSuccess), resp)
}

// POST /merchant/register
func (h *AuthHandler) RegisterMerchant(c *gin.Context) {
	var req services.MerchantRegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.RegisterMerchant(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAuthRegisterSuccess), resp)
}

// POST /merchant/sign_in
func (h *AuthHandler) SignInMerchant(c *gin.Context) {
	var req services.SignInRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.SignInMerchant(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAuthLoginSuccess), resp)
}
