package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shopmesh/storefront-backend/internal/config"
	"github.com/shopmesh/storefront-backend/internal/models"
	"github.com/shopmesh/storefront-backend/internal/registry/client"
	"github.com/shopmesh/storefront-backend/internal/services"
)

// CheckoutFlowTestSuite runs the whole mesh over httptest servers: registry,
// auth, product, cart and order, each with its own database, talking to each
// other through the registry exactly as the deployed services do.
type CheckoutFlowTestSuite struct {
	suite.Suite

	cfg      *config.Config
	registry *httptest.Server
	auth     *httptest.Server
	product  *httptest.Server
	cart     *httptest.Server
	order    *httptest.Server
}

func (s *CheckoutFlowTestSuite) openDB(name string, dst ...interface{}) *gorm.DB {
	dsn := fmt.Sprintf("file:flow_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(dst...))
	return db
}

func (s *CheckoutFlowTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	s.cfg = &config.Config{
		Environment: "test",
		JWT:         config.JWTConfig{SecretKey: "flow-test-secret", TokenTTL: 1},
		Registry:    config.RegistryConfig{ClientTimeout: 2},
		Upload:      config.UploadConfig{Dir: s.T().TempDir(), MaxSizeMB: 5},
	}

	s.registry = httptest.NewServer(NewRegistryRouter(s.cfg))
	s.cfg.Registry.URL = s.registry.URL

	rc := client.New(s.registry.URL, 2*time.Second)

	authDB := s.openDB("auth", &models.User{})
	s.auth = httptest.NewServer(NewAuthRouter(authDB, s.cfg))

	storage, err := services.NewStorageService(s.cfg)
	s.Require().NoError(err)
	productDB := s.openDB("product", &models.Product{})
	s.product = httptest.NewServer(NewProductRouter(productDB, s.cfg, rc, storage))

	cartDB := s.openDB("cart", &models.Cart{}, &models.CartItem{})
	s.cart = httptest.NewServer(NewCartRouter(cartDB, s.cfg, rc))

	orderDB := s.openDB("order", &models.Order{}, &models.OrderItem{})
	s.order = httptest.NewServer(NewOrderRouter(orderDB, s.cfg, rc))

	for name, url := range map[string]string{
		"auth":    s.auth.URL,
		"product": s.product.URL,
		"cart":    s.cart.URL,
		"order":   s.order.URL,
	} {
		s.Require().NoError(rc.RegisterSelf(context.Background(), name, url, nil))
	}
}

func (s *CheckoutFlowTestSuite) TearDownSuite() {
	for _, srv := range []*httptest.Server{s.order, s.cart, s.product, s.auth, s.registry} {
		if srv != nil {
			srv.Close()
		}
	}
}

func (s *CheckoutFlowTestSuite) postJSON(url string, body interface{}, token string) (*http.Response, map[string]interface{}) {
	return s.doJSON(http.MethodPost, url, body, token)
}

func (s *CheckoutFlowTestSuite) doJSON(method, url string, body interface{}, token string) (*http.Response, map[string]interface{}) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func data(body map[string]interface{}) map[string]interface{} {
	d, _ := body["data"].(map[string]interface{})
	return d
}

func (s *CheckoutFlowTestSuite) TestFullCheckoutFlow() {
	// Register a shopper.
	resp, body := s.postJSON(s.auth.URL+"/api/auth/register", map[string]string{
		"username": "shopper",
		"email":    "shopper@example.com",
		"password": "secret123",
	}, "")
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	token, _ := data(body)["token"].(string)
	s.Require().NotEmpty(token)
	user, _ := data(body)["user"].(map[string]interface{})
	userID, _ := user["id"].(string)
	s.Require().NotEmpty(userID)

	// Create a product; the write is authenticated against the auth
	// service through the registry.
	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	s.Require().NoError(writer.WriteField("name", "Coffee Beans"))
	s.Require().NoError(writer.WriteField("price", "12.50"))
	s.Require().NoError(writer.WriteField("stock", "100"))
	s.Require().NoError(writer.WriteField("category", "coffee"))
	s.Require().NoError(writer.Close())

	req, err := http.NewRequest(http.MethodPost, s.product.URL+"/api/products", &form)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	productResp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	var productBody map[string]interface{}
	s.Require().NoError(json.NewDecoder(productResp.Body).Decode(&productBody))
	productResp.Body.Close()
	s.Require().Equal(http.StatusCreated, productResp.StatusCode)

	product, _ := data(productBody)["product"].(map[string]interface{})
	productID, _ := product["id"].(string)
	s.Require().NotEmpty(productID)

	// The same request without a token is rejected before reaching the
	// handler.
	unauthReq, err := http.NewRequest(http.MethodPost, s.product.URL+"/api/products", strings.NewReader(""))
	s.Require().NoError(err)
	unauthResp, err := http.DefaultClient.Do(unauthReq)
	s.Require().NoError(err)
	unauthResp.Body.Close()
	s.Equal(http.StatusUnauthorized, unauthResp.StatusCode)

	// Add the product to the cart. The cart service snapshots the
	// catalog name and price.
	resp, body = s.postJSON(s.cart.URL+"/api/carts/items", map[string]interface{}{
		"userId":    userID,
		"productId": productID,
		"quantity":  2,
	}, "")
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	cart, _ := data(body)["cart"].(map[string]interface{})
	items, _ := cart["items"].([]interface{})
	s.Require().Len(items, 1)
	line, _ := items[0].(map[string]interface{})
	s.Equal("Coffee Beans", line["name"])
	s.Equal(12.5, line["price"])

	totals, _ := data(body)["totals"].(map[string]interface{})
	s.Equal(25.0, totals["subtotal"])

	// Place the order.
	resp, body = s.postJSON(s.order.URL+"/api/orders", map[string]interface{}{
		"userId": userID,
		"items": []map[string]interface{}{
			{"productId": productID, "quantity": 2},
		},
		"totalAmount":     25.0,
		"shippingAddress": map[string]string{"city": "Springfield"},
		"paymentMethod":   "Credit Card",
	}, "")
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	order, _ := data(body)["order"].(map[string]interface{})
	s.Equal("Processing", order["orderStatus"])
	s.Equal("Pending", order["paymentStatus"])
	orderItems, _ := order["items"].([]interface{})
	s.Require().Len(orderItems, 1)
	orderLine, _ := orderItems[0].(map[string]interface{})
	s.Equal(12.5, orderLine["price"])

	// The successful order cleared the cart through the registry.
	resp, body = s.postJSON(s.cart.URL+"/api/carts/get", map[string]string{"userId": userID}, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	cart, _ = data(body)["cart"].(map[string]interface{})
	items, _ = cart["items"].([]interface{})
	s.Empty(items)
}

func (s *CheckoutFlowTestSuite) TestRegistryLookup() {
	resp, err := http.Get(s.registry.URL + "/service/product")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var record struct {
		URL string `json:"url"`
	}
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&record))
	s.Equal(s.product.URL, record.URL)
}

func TestCheckoutFlowSuite(t *testing.T) {
	suite.Run(t, new(CheckoutFlowTestSuite))
}
