// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess        = "success"
	KeyInternalError  = "error.internal"
	KeyRateLimited    = "error.rate_limited"
	KeyForbidden      = "error.forbidden"
	KeyNotFound       = "error.not_found"
	KeyInvalidRequest = "error.invalid_request"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthMerchantExists     = "auth.merchant_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthWrongRole          = "auth.wrong_role"

	// Products and feed
	KeyFeedSuccess         = "feed.success"
	KeyOffersSuccess       = "feed.offers_success"
	KeyCategoriesSuccess   = "feed.categories_success"
	KeyMerchantsSuccess    = "feed.merchants_success"
	KeyProductNotFound     = "product.not_found"
	KeyProductCreated      = "product.created"
	KeyProductExists       = "product.exists"
	KeyInvalidMerchantIDs  = "feed.invalid_merchant_ids"
	KeyCoordinatesRequired = "feed.coordinates_required"

	// Merchant inventory
	KeyStockCreated      = "stock.created"
	KeyStockNotOwned     = "stock.not_owned"
	KeyStockLineAdded    = "stock.line_added"
	KeyStockLineUpdated  = "stock.line_updated"
	KeyStockLineNotFound = "stock.line_not_found"
	KeyStockLineExists   = "stock.line_exists"

	// Cart and orders
	KeyCartCreated       = "order.cart_created"
	KeyCartSuccess       = "order.cart_success"
	KeyCartNotFound      = "order.cart_not_found"
	KeyOrderCreated      = "order.created"
	KeyOrderSuccess      = "order.success"
	KeyOrdersSuccess     = "order.list_success"
	KeyOrderNotFound     = "order.not_found"
	KeyOrderDeleted      = "order.deleted"
	KeyOrderNotOwned     = "order.not_owned"
	KeyOrderConfirmed    = "order.already_confirmed"
	KeyOrderEmpty        = "order.empty"
	KeyItemAdded         = "order_item.added"
	KeyItemUpdated       = "order_item.updated"
	KeyItemDeleted       = "order_item.deleted"
	KeyItemsSuccess      = "order_item.list_success"
	KeyItemNotFound      = "order_item.not_found"
	KeySKUNotFound       = "order_item.sku_not_found"
	KeyInsufficientStock = "order_item.insufficient_stock"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
)
