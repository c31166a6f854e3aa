package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"farm-shop/config"
	"farm-shop/internal/cart"
	"farm-shop/internal/catalog"
	"farm-shop/internal/service"
	"farm-shop/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	rate := 1.0
	ix := catalog.NewIndex([]catalog.Item{
		{ID: "honey", Name: "Honey", NameTH: "น้ำผึ้ง", Category: "farm", InStock: true, RatePer5: &rate},
		{ID: "hamburger", Name: "Hamburger", NameTH: "แฮมเบอร์เกอร์", Category: "bakery", InStock: true, RatePer5: &rate},
		{ID: "dynamite", Name: "Dynamite", NameTH: "ไดนาไมต์", Category: "tools", InStock: false},
	})

	carts := cart.NewStore(storage.NewMemory(), 5, 5)
	shop := service.NewShopService(ix, carts, nil, nil, config.ShopConfig{
		Brand:           "Kttermgame",
		LineOAID:        "@149iekag",
		LineOAURL:       "https://lin.ee/MgaS2aW",
		QtyStep:         5,
		MinQty:          5,
		DefaultRatePer5: 1,
	})

	router := gin.New()
	NewHandler(shop).SetupRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string, cookies []*http.Cookie) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestBrowseCatalogEndpoint(t *testing.T) {
	router := setupRouter()

	w, resp := doJSON(t, router, http.MethodGet, "/api/v1/catalog?category=bakery", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	items := resp["items"].([]interface{})
	require.Len(t, items, 1)
}

func TestCartFlowAcrossRequests(t *testing.T) {
	router := setupRouter()

	// First request issues the session cookie
	w, resp := doJSON(t, router, http.MethodPut, "/api/v1/cart/items/honey", `{"quantity":10}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, resp["kinds"])

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	// Same session sees the same cart
	w, resp = doJSON(t, router, http.MethodGet, "/api/v1/cart", "", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2.0, resp["total"])

	// A different session starts empty
	_, fresh := doJSON(t, router, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, 0.0, fresh["total"])
}

func TestStepperEndpoints(t *testing.T) {
	router := setupRouter()

	// First increment issues the cookie and starts at the minimum
	w, resp := doJSON(t, router, http.MethodPost, "/api/v1/cart/items/honey/increment", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, 5.0, resp["cart"].(map[string]interface{})["honey"])

	w, resp = doJSON(t, router, http.MethodPost, "/api/v1/cart/items/honey/increment", "", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10.0, resp["cart"].(map[string]interface{})["honey"])

	w, resp = doJSON(t, router, http.MethodPost, "/api/v1/cart/items/honey/decrement", "", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5.0, resp["cart"].(map[string]interface{})["honey"])

	// Out-of-stock items don't step
	w, resp = doJSON(t, router, http.MethodPost, "/api/v1/cart/items/dynamite/increment", "", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, resp["kinds"])
	_, present := resp["cart"].(map[string]interface{})["dynamite"]
	assert.False(t, present)

	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/cart/items/tractor/increment", "", cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetQuantityValidation(t *testing.T) {
	router := setupRouter()

	w, _ := doJSON(t, router, http.MethodPut, "/api/v1/cart/items/honey", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, http.MethodPut, "/api/v1/cart/items/honey", `{"quantity":-5}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, http.MethodPut, "/api/v1/cart/items/tractor", `{"quantity":5}`, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDispatchReturnsComposedText(t *testing.T) {
	router := setupRouter()

	w, _ := doJSON(t, router, http.MethodPut, "/api/v1/cart/items/honey", `{"quantity":10}`, nil)
	cookies := w.Result().Cookies()

	_, resp := doJSON(t, router, http.MethodPost, "/api/v1/order/dispatch", "", cookies)

	assert.Equal(t, true, resp["sent"])
	text := resp["text"].(string)
	assert.Contains(t, text, "รายการสั่งซื้อจาก Kttermgame")
	assert.Contains(t, text, "— 10 ชิ้น = 2 บาท")
	assert.Contains(t, text, "Farm Tag: #________")
}

func TestContactEndpoint(t *testing.T) {
	router := setupRouter()

	w, resp := doJSON(t, router, http.MethodGet, "/api/v1/contact", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "@149iekag", resp["line_oa_id"])
	assert.Equal(t, "https://lin.ee/MgaS2aW", resp["line_oa_url"])
}
