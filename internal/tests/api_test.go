//go:build integration

// internal/tests/api_test.go
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/javajoker/geomarket/internal/config"
	"github.com/javajoker/geomarket/internal/database"
	"github.com/javajoker/geomarket/internal/feed"
	"github.com/javajoker/geomarket/internal/i18n"
	"github.com/javajoker/geomarket/internal/router"
	"github.com/javajoker/geomarket/internal/services"
)

const milkEAN int64 = 4600605000011

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details json.RawMessage `json:"details"`
}

type APITestSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	router    *gin.Engine
}

func (suite *APITestSuite) SetupSuite() {
	if testing.Short() {
		suite.T().Skip("skipping integration test in short mode (requires Docker)")
	}
	gin.SetMode(gin.TestMode)
	suite.ctx = context.Background()

	// The Debian image ships a UTF-8 locale, which ILIKE needs for Cyrillic.
	container, err := tcpostgres.Run(suite.ctx, "postgres:16",
		tcpostgres.WithDatabase("geomarket"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(suite.T(), err, "Failed to start postgres container")
	suite.container = container

	connStr, err := container.ConnectionString(suite.ctx, "sslmode=disable")
	require.NoError(suite.T(), err)

	suite.db, err = gorm.Open(postgres.Open(connStr), database.GormConfig("silent"))
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), database.RunMigrations(suite.db))
	require.NoError(suite.T(), i18n.Initialize())

	cfg := &config.Config{
		Environment: "test",
		JWT:         config.JWTConfig{SecretKey: "integration-secret", AccessTokenTTL: 1},
		Feed:        config.FeedConfig{PriceWeight: 0.7, DistanceWeight: 0.3, DefaultLimit: 20, MaxLimit: 100},
		RateLimit:   config.RateLimitConfig{GeneralPerSecond: 1000, GeneralBurst: 1000, AuthPerMinute: 1000, AuthBurst: 1000},
		I18n:        config.I18nConfig{DefaultLocale: "en"},
	}
	suite.router = router.Initialize(suite.db, cfg)
}

func (suite *APITestSuite) TearDownSuite() {
	if suite.db != nil {
		database.Close(suite.db)
	}
	if suite.container != nil {
		testcontainers.TerminateContainer(suite.container)
	}
}

func (suite *APITestSuite) SetupTest() {
	err := suite.db.Exec(`TRUNCATE order_items, orders, products_stock, stocks, products, merchants, users, audit_logs RESTART IDENTITY CASCADE`).Error
	require.NoError(suite.T(), err)
}

func (suite *APITestSuite) do(method, path, token string, body interface{}) (int, envelope) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(suite.T(), json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (suite *APITestSuite) decode(env envelope, v interface{}) {
	require.NoError(suite.T(), json.Unmarshal(env.Data, v))
}

func (suite *APITestSuite) registerMerchant(name, email string) string {
	code, env := suite.do(http.MethodPost, "/merchant/register", "", gin.H{
		"name": name, "email": email, "password": "merchant-pass",
	})
	require.Equal(suite.T(), http.StatusCreated, code)

	var resp services.MerchantAuthResponse
	suite.decode(env, &resp)
	require.NotEmpty(suite.T(), resp.AccessToken)
	require.NotZero(suite.T(), resp.MerchantID)
	return resp.AccessToken
}

func (suite *APITestSuite) registerUser(email string) string {
	code, env := suite.do(http.MethodPost, "/user/register", "", gin.H{
		"username": "shopper", "email": email, "password": "shopper-pass",
	})
	require.Equal(suite.T(), http.StatusCreated, code)

	var resp services.UserAuthResponse
	suite.decode(env, &resp)
	require.NotZero(suite.T(), resp.UserID)
	return resp.AccessToken
}

func (suite *APITestSuite) createStock(token string, lat, long float64) uint {
	code, env := suite.do(http.MethodPost, "/merchant/stocks", token, gin.H{
		"address": fmt.Sprintf("%.2f, %.2f", lat, long), "lat": lat, "long": long,
	})
	require.Equal(suite.T(), http.StatusCreated, code)

	var resp struct {
		StockID uint `json:"stock_id"`
	}
	suite.decode(env, &resp)
	return resp.StockID
}

func (suite *APITestSuite) createProduct(token string, ean int64, name, category string) {
	code, _ := suite.do(http.MethodPost, "/merchant/products", token, gin.H{
		"ean": ean, "name": name, "category": category, "weight": 1,
	})
	require.Equal(suite.T(), http.StatusCreated, code)
}

func (suite *APITestSuite) addLine(token string, stockID uint, ean int64, price float64, amount int) uint {
	code, env := suite.do(http.MethodPost, fmt.Sprintf("/merchant/add/product/stock/%d", stockID), token, gin.H{
		"ean": ean, "price": price, "amount": amount,
	})
	require.Equal(suite.T(), http.StatusCreated, code)

	var resp struct {
		SKUID uint `json:"sku_id"`
	}
	suite.decode(env, &resp)
	return resp.SKUID
}

// milkScenario stocks milk at two merchants: 100 x5 near the viewer and
// 80 x3 about 42 km away. It returns both SKUs.
func (suite *APITestSuite) milkScenario() (near, far uint) {
	tokenA := suite.registerMerchant("A", "a@example.com")
	tokenB := suite.registerMerchant("B", "b@example.com")
	stockA := suite.createStock(tokenA, 55.70, 37.60)
	stockB := suite.createStock(tokenB, 56.00, 38.00)

	suite.createProduct(tokenA, milkEAN, "Молоко Простоквашино", "Молочные продукты")
	near = suite.addLine(tokenA, stockA, milkEAN, 100, 5)
	far = suite.addLine(tokenB, stockB, milkEAN, 80, 3)
	return near, far
}

func (suite *APITestSuite) TestFeedAndOffers() {
	near, far := suite.milkScenario()

	code, env := suite.do(http.MethodGet, "/products/feed?sort_by=price&search=%D0%BC%D0%BE%D0%BB%D0%BE%D0%BA", "", nil)
	require.Equal(suite.T(), http.StatusOK, code)

	var page struct {
		Products   []feed.FeedEntry `json:"products"`
		TotalCount int64            `json:"total_count"`
	}
	suite.decode(env, &page)
	require.Len(suite.T(), page.Products, 1)
	assert.EqualValues(suite.T(), 1, page.TotalCount)
	assert.EqualValues(suite.T(), far, page.Products[0].BestOffer.SKUID)
	assert.Equal(suite.T(), 80.0, page.Products[0].MinPrice)
	assert.Equal(suite.T(), 100.0, page.Products[0].MaxPrice)
	assert.Nil(suite.T(), page.Products[0].BestOffer.DistanceKm)

	code, env = suite.do(http.MethodGet, fmt.Sprintf("/products/%d/offers?user_lat=55.70&user_long=37.60", milkEAN), "", nil)
	require.Equal(suite.T(), http.StatusOK, code)

	var view feed.ProductOffersView
	suite.decode(env, &view)
	require.NotNil(suite.T(), view.BestOffer)
	assert.EqualValues(suite.T(), near, view.BestOffer.SKUID)
	require.Len(suite.T(), view.Offers, 2)
	assert.InDelta(suite.T(), 42, *view.Offers[1].DistanceKm, 3)
}

func (suite *APITestSuite) TestCatalogStoreQueries() {
	suite.milkScenario()
	token := suite.registerMerchant("C", "c@example.com")
	stock := suite.createStock(token, 55.80, 37.70)
	suite.createProduct(token, 4600702000017, "Хлеб Бородинский", "Хлеб и выпечка")
	suite.createProduct(token, 4607025390015, "Сыр Российский", "Молочные продукты")
	suite.addLine(token, stock, 4600702000017, 40, 10)
	suite.addLine(token, stock, 4607025390015, 300, 0)

	store := services.NewCatalogStore(suite.db)
	all := feed.Page{Limit: 10}

	total, err := store.CountDistinct(suite.ctx, feed.Filter{})
	require.NoError(suite.T(), err)
	assert.EqualValues(suite.T(), 3, total)

	codes, err := store.FindDistinctProductCodes(suite.ctx, feed.Filter{}, feed.SelectByCheapestOffer, all)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []int64{4600702000017, milkEAN, 4607025390015}, codes)

	codes, err = store.FindDistinctProductCodes(suite.ctx, feed.Filter{}, feed.SelectByName, all)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []int64{milkEAN, 4607025390015, 4600702000017}, codes)

	codes, err = store.FindDistinctProductCodes(suite.ctx, feed.Filter{}, feed.SelectByCheapestOffer, feed.Page{Offset: 1, Limit: 1})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []int64{milkEAN}, codes)

	// Category matches via search as well as name.
	total, err = store.CountDistinct(suite.ctx, feed.Filter{Search: "МОЛОЧ"})
	require.NoError(suite.T(), err)
	assert.EqualValues(suite.T(), 2, total)

	total, err = store.CountDistinct(suite.ctx, feed.Filter{Category: "выпечка", MerchantIDs: []int64{1, 2}})
	require.NoError(suite.T(), err)
	assert.Zero(suite.T(), total)

	codes, err = store.FindDistinctProductCodes(suite.ctx, feed.Filter{MerchantIDs: []int64{3}}, feed.SelectByName, all)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []int64{4607025390015, 4600702000017}, codes)

	hydrated, err := store.FetchProductsWithOffers(suite.ctx, []int64{milkEAN, 42})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), hydrated, 1)
	require.Len(suite.T(), hydrated[0].Offers, 2)
	assert.Equal(suite.T(), "A", hydrated[0].Offers[0].Merchant.Name)
	assert.Equal(suite.T(), 55.70, hydrated[0].Offers[0].Location.Lat)

	categories, err := store.Categories(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"Молочные продукты", "Хлеб и выпечка"}, categories)

	merchants, err := store.Merchants(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []feed.Merchant{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}}, merchants)
}

func (suite *APITestSuite) TestCheckoutFlow() {
	near, far := suite.milkScenario()
	user := suite.registerUser("shopper@example.com")

	code, env := suite.do(http.MethodPost, "/cart", user, nil)
	require.Equal(suite.T(), http.StatusCreated, code)
	var cart services.OrderView
	suite.decode(env, &cart)

	// A second POST /cart returns the open cart.
	code, env = suite.do(http.MethodPost, "/cart", user, nil)
	require.Equal(suite.T(), http.StatusOK, code)
	var again services.OrderView
	suite.decode(env, &again)
	assert.Equal(suite.T(), cart.ID, again.ID)

	itemsPath := fmt.Sprintf("/orders/%d/items", cart.ID)
	code, env = suite.do(http.MethodPost, itemsPath, user, gin.H{"sku_id": far, "quantity": 4})
	assert.Equal(suite.T(), http.StatusBadRequest, code)
	assert.Contains(suite.T(), string(env.Details), `"available":3`)

	code, _ = suite.do(http.MethodPost, itemsPath, user, gin.H{"sku_id": far, "quantity": 2})
	require.Equal(suite.T(), http.StatusCreated, code)
	code, env = suite.do(http.MethodPost, itemsPath, user, gin.H{"sku_id": near, "quantity": 1})
	require.Equal(suite.T(), http.StatusCreated, code)

	var withItems services.OrderView
	suite.decode(env, &withItems)
	assert.Equal(suite.T(), 2, withItems.TotalItems)
	assert.Equal(suite.T(), 3, withItems.TotalAmount)
	assert.Equal(suite.T(), 260.0, withItems.TotalPrice)

	code, env = suite.do(http.MethodPost, "/order", user, gin.H{"delivery_method": "drone", "address": "x"})
	assert.Equal(suite.T(), http.StatusUnprocessableEntity, code)

	code, env = suite.do(http.MethodPost, "/order", user, gin.H{"delivery_method": "courier", "address": "ул. Ленина, 1"})
	require.Equal(suite.T(), http.StatusCreated, code)
	var order services.OrderView
	suite.decode(env, &order)
	assert.Equal(suite.T(), "confirmed", string(order.Status))
	assert.Equal(suite.T(), "courier", string(order.DeliveryMethod))

	// Stock went down by what was bought.
	code, env = suite.do(http.MethodGet, fmt.Sprintf("/products/%d/offers?user_lat=55.70&user_long=37.60", milkEAN), "", nil)
	require.Equal(suite.T(), http.StatusOK, code)
	var view feed.ProductOffersView
	suite.decode(env, &view)
	amounts := map[int64]int{}
	for _, o := range view.Offers {
		amounts[o.SKUID] = o.Amount
	}
	assert.Equal(suite.T(), map[int64]int{int64(near): 4, int64(far): 1}, amounts)

	code, _ = suite.do(http.MethodGet, "/cart", user, nil)
	assert.Equal(suite.T(), http.StatusNotFound, code)

	code, _ = suite.do(http.MethodPost, itemsPath, user, gin.H{"sku_id": near, "quantity": 1})
	assert.Equal(suite.T(), http.StatusConflict, code)

	code, env = suite.do(http.MethodGet, "/users/orders", user, nil)
	require.Equal(suite.T(), http.StatusOK, code)
	var history struct {
		Orders     []services.OrderView `json:"orders"`
		TotalCount int64                `json:"total_count"`
		Limit      int                  `json:"limit"`
	}
	suite.decode(env, &history)
	assert.EqualValues(suite.T(), 1, history.TotalCount)
	assert.Equal(suite.T(), 50, history.Limit)
}

func (suite *APITestSuite) TestCheckoutConflict() {
	_, far := suite.milkScenario()
	first := suite.registerUser("first@example.com")
	second := suite.registerUser("second@example.com")

	for _, token := range []string{first, second} {
		code, env := suite.do(http.MethodPost, "/cart", token, nil)
		require.Equal(suite.T(), http.StatusCreated, code)
		var cart services.OrderView
		suite.decode(env, &cart)

		code, _ = suite.do(http.MethodPost, fmt.Sprintf("/orders/%d/items", cart.ID), token, gin.H{"sku_id": far, "quantity": 2})
		require.Equal(suite.T(), http.StatusCreated, code)
	}

	checkout := gin.H{"delivery_method": "pickup", "address": "самовывоз"}
	code, _ := suite.do(http.MethodPost, "/order", first, checkout)
	require.Equal(suite.T(), http.StatusCreated, code)

	code, env := suite.do(http.MethodPost, "/order", second, checkout)
	assert.Equal(suite.T(), http.StatusConflict, code)
	assert.Contains(suite.T(), string(env.Details), `"available":1`)

	// The failed checkout leaves the cart open.
	code, _ = suite.do(http.MethodGet, "/cart", second, nil)
	assert.Equal(suite.T(), http.StatusOK, code)
}

func (suite *APITestSuite) TestOwnershipAndConflicts() {
	near, _ := suite.milkScenario()
	tokenA := suite.registerMerchant("A2", "a2@example.com")
	stockA2 := suite.createStock(tokenA, 55.75, 37.61)

	code, _ := suite.do(http.MethodPost, "/merchant/register", "", gin.H{"name": "dup", "email": "a@example.com", "password": "merchant-pass"})
	assert.Equal(suite.T(), http.StatusConflict, code)

	code, _ = suite.do(http.MethodPost, "/merchant/sign_in", "", gin.H{"email": "a@example.com", "password": "wrong-pass"})
	assert.Equal(suite.T(), http.StatusUnauthorized, code)

	code, env := suite.do(http.MethodPost, "/merchant/sign_in", "", gin.H{"email": "a@example.com", "password": "merchant-pass"})
	require.Equal(suite.T(), http.StatusOK, code)
	var signIn services.MerchantAuthResponse
	suite.decode(env, &signIn)
	tokenOrigA := signIn.AccessToken

	// Stock 1 belongs to merchant A, not A2.
	code, _ = suite.do(http.MethodPost, "/merchant/add/product/stock/1", tokenA, gin.H{"ean": milkEAN, "price": 90, "amount": 1})
	assert.Equal(suite.T(), http.StatusForbidden, code)

	code, _ = suite.do(http.MethodPost, fmt.Sprintf("/merchant/add/product/stock/%d", stockA2), tokenA, gin.H{"ean": 4600000000000, "price": 90, "amount": 1})
	assert.Equal(suite.T(), http.StatusNotFound, code)

	code, _ = suite.do(http.MethodPost, "/merchant/add/product/stock/1", tokenOrigA, gin.H{"ean": milkEAN, "price": 90, "amount": 1})
	assert.Equal(suite.T(), http.StatusConflict, code)

	code, _ = suite.do(http.MethodPost, "/merchant/products", tokenA, gin.H{"ean": milkEAN, "name": "Copy"})
	assert.Equal(suite.T(), http.StatusConflict, code)

	code, _ = suite.do(http.MethodPost, "/merchant/products", tokenA, gin.H{"ean": 10000000000000, "name": "Too long"})
	assert.Equal(suite.T(), http.StatusUnprocessableEntity, code)

	code, _ = suite.do(http.MethodPost, fmt.Sprintf("/merchant/add/product/stock/%d", stockA2), tokenA, gin.H{"ean": milkEAN, "price": -1, "amount": 1})
	assert.Equal(suite.T(), http.StatusUnprocessableEntity, code)

	code, env = suite.do(http.MethodPut, fmt.Sprintf("/merchant/product/stock/1/%d", near), tokenOrigA, gin.H{"price": 95.5})
	require.Equal(suite.T(), http.StatusOK, code)
	var line struct {
		Price  float64 `json:"price"`
		Amount int     `json:"amount"`
	}
	suite.decode(env, &line)
	assert.Equal(suite.T(), 95.5, line.Price)
	assert.Equal(suite.T(), 5, line.Amount)

	// Users can not reach merchant routes and vice versa.
	user := suite.registerUser("u@example.com")
	code, _ = suite.do(http.MethodPost, "/merchant/stocks", user, gin.H{"address": "x", "lat": 1, "long": 1})
	assert.Equal(suite.T(), http.StatusForbidden, code)
	code, _ = suite.do(http.MethodPost, "/cart", tokenA, nil)
	assert.Equal(suite.T(), http.StatusForbidden, code)

	code, env = suite.do(http.MethodPost, "/cart", user, nil)
	require.Equal(suite.T(), http.StatusCreated, code)
	var cart services.OrderView
	suite.decode(env, &cart)

	other := suite.registerUser("other@example.com")
	code, _ = suite.do(http.MethodGet, fmt.Sprintf("/orders/%d", cart.ID), other, nil)
	assert.Equal(suite.T(), http.StatusForbidden, code)
	code, _ = suite.do(http.MethodDelete, fmt.Sprintf("/orders/%d", cart.ID), other, nil)
	assert.Equal(suite.T(), http.StatusForbidden, code)

	code, _ = suite.do(http.MethodDelete, fmt.Sprintf("/orders/%d", cart.ID), user, nil)
	assert.Equal(suite.T(), http.StatusOK, code)
	code, _ = suite.do(http.MethodGet, fmt.Sprintf("/orders/%d", cart.ID), user, nil)
	assert.Equal(suite.T(), http.StatusNotFound, code)
}

func (suite *APITestSuite) TestFreeOfferAndShortEAN() {
	const importedEAN int64 = 12345678905

	token := suite.registerMerchant("F", "f@example.com")
	near := suite.createStock(token, 55.70, 37.60)
	far := suite.createStock(token, 55.75, 37.61)
	suite.createProduct(token, importedEAN, "Импортный сыр", "Импорт")

	free := suite.addLine(token, near, importedEAN, 0, 2)
	paid := suite.addLine(token, far, importedEAN, 25, 1)

	code, env := suite.do(http.MethodPut, fmt.Sprintf("/merchant/product/stock/%d/%d", far, paid), token, gin.H{"price": 19.999})
	require.Equal(suite.T(), http.StatusOK, code)
	var line struct {
		Price float64 `json:"price"`
	}
	suite.decode(env, &line)
	assert.Equal(suite.T(), 19.999, line.Price)

	q := url.Values{}
	q.Set("category", "Импорт")
	q.Set("sort_by", "best_value")
	q.Set("user_lat", "55.70")
	q.Set("user_long", "37.60")
	code, env = suite.do(http.MethodGet, "/products/feed?"+q.Encode(), "", nil)
	require.Equal(suite.T(), http.StatusOK, code)

	var page struct {
		Products []feed.FeedEntry `json:"products"`
	}
	suite.decode(env, &page)
	require.Len(suite.T(), page.Products, 1)
	entry := page.Products[0]
	assert.Equal(suite.T(), importedEAN, entry.EAN)
	assert.Equal(suite.T(), 0.0, entry.MinPrice)
	assert.Equal(suite.T(), 19.999, entry.MaxPrice)
	assert.Equal(suite.T(), int64(free), entry.BestOffer.SKUID)
	assert.Equal(suite.T(), 0.0, entry.BestOffer.Price)

	// Zeroing the paid line leaves a product whose every price is zero.
	code, _ = suite.do(http.MethodPut, fmt.Sprintf("/merchant/product/stock/%d/%d", far, paid), token, gin.H{"price": 0})
	require.Equal(suite.T(), http.StatusOK, code)

	code, env = suite.do(http.MethodGet, fmt.Sprintf("/products/%d/offers?user_lat=55.70&user_long=37.60", importedEAN), "", nil)
	require.Equal(suite.T(), http.StatusOK, code)
	var view feed.ProductOffersView
	suite.decode(env, &view)
	require.Len(suite.T(), view.Offers, 2)
	require.NotNil(suite.T(), view.BestOffer)
	assert.Equal(suite.T(), 0.0, view.BestOffer.Price)
}

func (suite *APITestSuite) TestItemLifecycle() {
	near, _ := suite.milkScenario()
	user := suite.registerUser("items@example.com")

	code, env := suite.do(http.MethodPost, "/cart", user, nil)
	require.Equal(suite.T(), http.StatusCreated, code)
	var cart services.OrderView
	suite.decode(env, &cart)

	code, env = suite.do(http.MethodPost, fmt.Sprintf("/orders/%d/items", cart.ID), user, gin.H{"sku_id": near, "quantity": 1})
	require.Equal(suite.T(), http.StatusCreated, code)
	var order services.OrderView
	suite.decode(env, &order)
	require.Len(suite.T(), order.Items, 1)
	itemID := order.Items[0].ID

	// Adding the same SKU again raises the quantity.
	code, env = suite.do(http.MethodPost, fmt.Sprintf("/orders/%d/items", cart.ID), user, gin.H{"sku_id": near, "quantity": 2})
	require.Equal(suite.T(), http.StatusCreated, code)
	suite.decode(env, &order)
	require.Len(suite.T(), order.Items, 1)
	assert.Equal(suite.T(), 3, order.Items[0].Quantity)

	code, _ = suite.do(http.MethodPut, fmt.Sprintf("/order-items/%d", itemID), user, gin.H{"quantity": 6})
	assert.Equal(suite.T(), http.StatusBadRequest, code)

	code, env = suite.do(http.MethodPut, fmt.Sprintf("/order-items/%d", itemID), user, gin.H{"quantity": 5})
	require.Equal(suite.T(), http.StatusOK, code)
	suite.decode(env, &order)
	assert.Equal(suite.T(), 500.0, order.TotalPrice)

	code, env = suite.do(http.MethodGet, fmt.Sprintf("/orders/%d/items", cart.ID), user, nil)
	require.Equal(suite.T(), http.StatusOK, code)
	var items struct {
		Items      []services.OrderItemView `json:"items"`
		TotalItems int                      `json:"total_items"`
	}
	suite.decode(env, &items)
	assert.Equal(suite.T(), 1, items.TotalItems)

	code, _ = suite.do(http.MethodPost, fmt.Sprintf("/orders/%d/items", cart.ID), user, gin.H{"sku_id": 999, "quantity": 1})
	assert.Equal(suite.T(), http.StatusNotFound, code)

	code, env = suite.do(http.MethodDelete, fmt.Sprintf("/order-items/%d", itemID), user, nil)
	require.Equal(suite.T(), http.StatusOK, code)
	suite.decode(env, &order)
	assert.Empty(suite.T(), order.Items)

	code, _ = suite.do(http.MethodDelete, fmt.Sprintf("/order-items/%d", itemID), user, nil)
	assert.Equal(suite.T(), http.StatusNotFound, code)

	code, _ = suite.do(http.MethodPost, "/order", user, gin.H{"delivery_method": "pickup", "address": "x"})
	assert.Equal(suite.T(), http.StatusConflict, code)
}

func (suite *APITestSuite) TestSeedIsIdempotent() {
	stats, err := database.Seed(suite.db, database.DemoSeed())
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 10, stats.Products)
	assert.Equal(suite.T(), 3, stats.Merchants)

	stats, err = database.Seed(suite.db, database.DemoSeed())
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), database.SeedStats{}, stats)

	code, env := suite.do(http.MethodPost, "/merchant/sign_in", "", gin.H{"email": "pyaterochka@example.com", "password": "demo-password"})
	assert.Equal(suite.T(), http.StatusOK, code, string(env.Data))
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
