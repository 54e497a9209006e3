package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/geomarket/internal/models"
	"github.com/javajoker/geomarket/internal/utils"
)

type MiddlewareTestSuite struct {
	suite.Suite
	router *gin.Engine
}

func (suite *MiddlewareTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("middleware-test-secret")
}

func (suite *MiddlewareTestSuite) SetupTest() {
	suite.router = gin.New()
	suite.router.Use(RequestID(), I18nMiddleware("en"))

	echo := func(c *gin.Context) {
		id, _ := utils.GetSubjectIDFromContext(c)
		role, _ := utils.GetRoleFromContext(c)
		c.JSON(http.StatusOK, gin.H{
			"subject_id": id,
			"role":       role,
			"lang":       utils.GetLangFromContext(c),
			"request_id": utils.GetRequestIDFromContext(c),
		})
	}
	suite.router.GET("/open", echo)
	suite.router.GET("/user", append(UserRequired(), echo)...)
	suite.router.GET("/merchant", append(MerchantRequired(), echo)...)
}

func (suite *MiddlewareTestSuite) do(path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *MiddlewareTestSuite) token(id uint, role models.Role) string {
	token, err := utils.GenerateJWT(id, string(role), 1)
	require.NoError(suite.T(), err)
	return "Bearer " + token
}

func (suite *MiddlewareTestSuite) TestMissingToken() {
	w := suite.do("/user", nil)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	var body map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(suite.T(), "error", body["status"])
}

func (suite *MiddlewareTestSuite) TestMalformedHeader() {
	w := suite.do("/user", map[string]string{"Authorization": "Token abc"})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	w = suite.do("/user", map[string]string{"Authorization": "Bearer not-a-jwt"})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *MiddlewareTestSuite) TestRoleEnforced() {
	w := suite.do("/merchant", map[string]string{"Authorization": suite.token(7, models.RoleUser)})
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w = suite.do("/user", map[string]string{"Authorization": suite.token(7, models.RoleUser)})
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(suite.T(), 7.0, body["subject_id"])
	assert.Equal(suite.T(), "user", body["role"])
}

func (suite *MiddlewareTestSuite) TestRequestIDAssignedAndPropagated() {
	w := suite.do("/open", nil)
	assert.NotEmpty(suite.T(), w.Header().Get("X-Request-ID"))

	const id = "3f1c2a9e-6d5b-4f7a-9c8e-1b2d3e4f5a6b"
	w = suite.do("/open", map[string]string{"X-Request-ID": id})
	assert.Equal(suite.T(), id, w.Header().Get("X-Request-ID"))
}

func (suite *MiddlewareTestSuite) TestLanguageFromHeader() {
	w := suite.do("/open", map[string]string{"Accept-Language": "ru-RU,ru;q=0.9,en;q=0.8"})

	var body map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(suite.T(), "ru", body["lang"])
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareTestSuite))
}

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, "en", parseLanguage("", "en"))
	assert.Equal(t, "ru", parseLanguage("ru", "en"))
	assert.Equal(t, "en", parseLanguage("de-DE,en-US;q=0.7", "ru"))
	assert.Equal(t, "ru", parseLanguage("fr", "ru"))
}

func TestRateLimiter_Rejects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthRateLimit(1, 2))
	r.POST("/user/sign_in", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/user/sign_in", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRedact(t *testing.T) {
	got := redact([]byte(`{"email":"a@example.com","password":"secret"}`))
	assert.Equal(t, "[redacted]", got["password"])
	assert.Equal(t, "a@example.com", got["email"])

	assert.Nil(t, redact(nil))
	assert.Nil(t, redact([]byte("not json")))
}

func TestExtractResourceType(t *testing.T) {
	assert.Equal(t, "orders", extractResourceType("/orders/5/items"))
	assert.Equal(t, "unknown", extractResourceType("/"))
}
