package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmeshcher/solemates/internal/middleware"
	"github.com/mmeshcher/solemates/internal/model"
	"github.com/mmeshcher/solemates/internal/repository"
	"github.com/mmeshcher/solemates/internal/service"
	"github.com/mmeshcher/solemates/internal/storefront"
	"github.com/mmeshcher/solemates/internal/validation"
)

type stubService struct {
	page storefront.Page
	err  error

	products  []model.Product
	orders    []model.Order
	dashboard *storefront.Dashboard
	text      string

	calls    []string
	clientID string
}

func (s *stubService) record(clientID, call string) (storefront.Page, error) {
	s.clientID = clientID
	s.calls = append(s.calls, call)
	return s.page, s.err
}

func (s *stubService) Page(clientID, category string) (storefront.Page, error) {
	return s.record(clientID, "page:"+category)
}

func (s *stubService) Navigate(clientID string, view model.View) (storefront.Page, error) {
	return s.record(clientID, "navigate:"+string(view))
}

func (s *stubService) SelectProduct(clientID, productID string) (storefront.Page, error) {
	return s.record(clientID, "select:"+productID)
}

func (s *stubService) Products(category string) []model.Product {
	s.calls = append(s.calls, "products:"+category)
	return s.products
}

func (s *stubService) Login(clientID, email, password string) (storefront.Page, error) {
	return s.record(clientID, "login:"+email)
}

func (s *stubService) Signup(clientID, name, email, password string) (storefront.Page, error) {
	return s.record(clientID, "signup:"+name+":"+email)
}

func (s *stubService) Logout(clientID string) (storefront.Page, error) {
	return s.record(clientID, "logout")
}

func (s *stubService) AddToCart(clientID, productID string, size int) (storefront.Page, error) {
	return s.record(clientID, fmt.Sprintf("add:%s:%d", productID, size))
}

func (s *stubService) RemoveFromCart(clientID, productID string) (storefront.Page, error) {
	return s.record(clientID, "remove:"+productID)
}

func (s *stubService) UpdateQuantity(clientID, productID string, quantity int) (storefront.Page, error) {
	return s.record(clientID, fmt.Sprintf("quantity:%s:%d", productID, quantity))
}

func (s *stubService) Checkout(clientID string) (storefront.Page, error) {
	return s.record(clientID, "checkout")
}

func (s *stubService) SubmitPayment(clientID string) (storefront.Page, error) {
	return s.record(clientID, "pay")
}

func (s *stubService) CompleteCheckout(clientID string) (storefront.Page, error) {
	return s.record(clientID, "complete")
}

func (s *stubService) Orders(clientID string) ([]model.Order, error) {
	_, err := s.record(clientID, "orders")
	return s.orders, err
}

func (s *stubService) Dashboard(clientID string) (*storefront.Dashboard, error) {
	_, err := s.record(clientID, "dashboard")
	return s.dashboard, err
}

func (s *stubService) AddProduct(clientID string, draft storefront.ProductDraft) (storefront.Page, error) {
	return s.record(clientID, "product:"+draft.Name+":"+draft.Price.String())
}

func (s *stubService) GenerateDescription(ctx context.Context, clientID, name, category, keywords string) (string, error) {
	_, err := s.record(clientID, "describe:"+name+":"+category+":"+keywords)
	return s.text, err
}

func newTestRouter(t *testing.T, svc Service) http.Handler {
	t.Helper()

	logger, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	h := NewHandler(svc, logger, middleware.NewClientMiddleware("test-secret"))
	return h.SetupRouter()
}

func do(t *testing.T, r http.Handler, method, target, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Result()
}

func TestRoutes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
		call   string
	}{
		{name: "view", method: http.MethodGet, target: "/api/view?category=Running", call: "page:Running"},
		{name: "navigate", method: http.MethodPost, target: "/api/navigate", body: `{"view":"CART"}`, call: "navigate:CART"},
		{name: "select", method: http.MethodPost, target: "/api/products/3/select", call: "select:3"},
		{name: "login", method: http.MethodPost, target: "/api/user/login", body: `{"email":"admin@solemates.com","password":"x"}`, call: "login:admin@solemates.com"},
		{name: "signup", method: http.MethodPost, target: "/api/user/signup", body: `{"name":"Ann","email":"ann@example.com","password":"x"}`, call: "signup:Ann:ann@example.com"},
		{name: "logout", method: http.MethodPost, target: "/api/user/logout", call: "logout"},
		{name: "add to cart", method: http.MethodPost, target: "/api/cart", body: `{"productId":"1","size":10}`, call: "add:1:10"},
		{name: "remove from cart", method: http.MethodDelete, target: "/api/cart/1", call: "remove:1"},
		{name: "update quantity", method: http.MethodPut, target: "/api/cart/1", body: `{"quantity":3}`, call: "quantity:1:3"},
		{name: "checkout", method: http.MethodPost, target: "/api/checkout", call: "checkout"},
		{name: "pay", method: http.MethodPost, target: "/api/checkout/pay", call: "pay"},
		{name: "complete", method: http.MethodPost, target: "/api/checkout/complete", call: "complete"},
		{name: "add product", method: http.MethodPost, target: "/api/admin/products", body: `{"name":"Desert Runner","price":"99.99"}`, call: "product:Desert Runner:99.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{page: storefront.Page{View: model.ViewCart, Rendered: model.ViewCart, CartItemCount: 2}}
			r := newTestRouter(t, svc)

			res := do(t, r, tt.method, tt.target, tt.body)
			defer res.Body.Close()

			require.Equal(t, http.StatusOK, res.StatusCode)
			assert.Equal(t, "application/json", res.Header.Get("Content-Type"))
			assert.Equal(t, []string{tt.call}, svc.calls)
			assert.NotEmpty(t, svc.clientID)

			var page map[string]any
			require.NoError(t, json.NewDecoder(res.Body).Decode(&page))
			assert.Equal(t, "CART", page["view"])
			assert.EqualValues(t, 2, page["cartItemCount"])
		})
	}
}

func TestErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "product not found", err: fmt.Errorf("get: %w", repository.ErrProductNotFound), want: http.StatusNotFound},
		{name: "unknown view", err: storefront.ErrUnknownView, want: http.StatusBadRequest},
		{name: "forbidden", err: storefront.ErrForbidden, want: http.StatusForbidden},
		{name: "checkout in progress", err: storefront.ErrCheckoutInProgress, want: http.StatusConflict},
		{name: "invalid transition", err: storefront.ErrInvalidTransition, want: http.StatusConflict},
		{name: "generation in progress", err: service.ErrGenerationInProgress, want: http.StatusConflict},
		{name: "invalid size", err: validation.ErrInvalidSize, want: http.StatusUnprocessableEntity},
		{name: "invalid price", err: validation.ErrInvalidPrice, want: http.StatusUnprocessableEntity},
		{name: "closed", err: storefront.ErrClosed, want: http.StatusServiceUnavailable},
		{name: "unexpected", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, &stubService{err: tt.err})

			res := do(t, r, http.MethodPost, "/api/navigate", `{"view":"HOME"}`)
			defer res.Body.Close()

			assert.Equal(t, tt.want, res.StatusCode)
		})
	}
}

func TestBadRequestBodies(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{name: "navigate malformed", method: http.MethodPost, target: "/api/navigate", body: `{"view":`},
		{name: "cart without product", method: http.MethodPost, target: "/api/cart", body: `{"size":9}`},
		{name: "quantity malformed", method: http.MethodPut, target: "/api/cart/1", body: `{"quantity":"many"}`},
		{name: "description without name", method: http.MethodPost, target: "/api/admin/description", body: `{"name":"  "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}
			r := newTestRouter(t, svc)

			res := do(t, r, tt.method, tt.target, tt.body)
			defer res.Body.Close()

			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			assert.Empty(t, svc.calls)
		})
	}
}

func TestProducts(t *testing.T) {
	svc := &stubService{products: repository.SeedProducts()[:2]}
	r := newTestRouter(t, svc)

	res := do(t, r, http.MethodGet, "/api/products?category=Running", "")
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var products []model.Product
	require.NoError(t, json.NewDecoder(res.Body).Decode(&products))
	require.Len(t, products, 2)
	assert.True(t, decimal.RequireFromString("129.99").Equal(products[0].Price))
	assert.Equal(t, []string{"products:Running"}, svc.calls)
}

func TestGetOrders(t *testing.T) {
	svc := &stubService{orders: repository.SeedOrders()}
	r := newTestRouter(t, svc)

	res := do(t, r, http.MethodGet, "/api/orders", "")
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var orders []model.Order
	require.NoError(t, json.NewDecoder(res.Body).Decode(&orders))
	assert.Len(t, orders, 2)
}

func TestGetDashboard(t *testing.T) {
	svc := &stubService{dashboard: &storefront.Dashboard{TotalRevenue: 19550, Growth: "+12.5%"}}
	r := newTestRouter(t, svc)

	res := do(t, r, http.MethodGet, "/api/admin/dashboard", "")
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var d storefront.Dashboard
	require.NoError(t, json.NewDecoder(res.Body).Decode(&d))
	assert.Equal(t, int64(19550), d.TotalRevenue)

	forbidden := newTestRouter(t, &stubService{err: storefront.ErrForbidden})
	res2 := do(t, forbidden, http.MethodGet, "/api/admin/dashboard", "")
	defer res2.Body.Close()
	assert.Equal(t, http.StatusForbidden, res2.StatusCode)
}

func TestGenerateDescription(t *testing.T) {
	svc := &stubService{text: "Bold steps."}
	r := newTestRouter(t, svc)

	res := do(t, r, http.MethodPost, "/api/admin/description", `{"name":"Velvet Loafer","category":"Formal","keywords":"velvet"}`)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var resp descriptionResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&resp))
	assert.Equal(t, "Bold steps.", resp.Description)
	assert.Equal(t, []string{"describe:Velvet Loafer:Formal:velvet"}, svc.calls)
}

func TestClientCookieIsStable(t *testing.T) {
	svc := &stubService{}
	r := newTestRouter(t, svc)

	first := do(t, r, http.MethodGet, "/api/view", "")
	first.Body.Close()
	cookies := first.Cookies()
	require.Len(t, cookies, 1)
	firstID := svc.clientID

	req := httptest.NewRequest(http.MethodGet, "/api/view", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, firstID, svc.clientID)
}

func TestMetricsAndFallbacks(t *testing.T) {
	r := newTestRouter(t, &stubService{})

	res := do(t, r, http.MethodGet, "/metrics", "")
	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")

	res = do(t, r, http.MethodGet, "/api/unknown", "")
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res = do(t, r, http.MethodGet, "/api/checkout/pay", "")
	res.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestHandlersRequireClientID(t *testing.T) {
	svc := &stubService{orders: repository.SeedOrders()}
	logger := zap.NewNop()
	h := NewHandler(svc, logger, middleware.NewClientMiddleware("test-secret"))

	rec := httptest.NewRecorder()
	h.GetOrders(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, svc.calls)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req = req.WithContext(middleware.WithClientID(req.Context(), "client-7"))

	rec = httptest.NewRecorder()
	h.GetOrders(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "client-7", svc.clientID)
	assert.Equal(t, []string{"orders"}, svc.calls)
}
