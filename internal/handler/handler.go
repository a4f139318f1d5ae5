// Package handler содержит HTTP-обработчики API витрины SoleMates.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/solemates/internal/middleware"
	"github.com/mmeshcher/solemates/internal/model"
	"github.com/mmeshcher/solemates/internal/repository"
	"github.com/mmeshcher/solemates/internal/service"
	"github.com/mmeshcher/solemates/internal/storefront"
	"github.com/mmeshcher/solemates/internal/validation"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	Page(clientID, category string) (storefront.Page, error)
	Navigate(clientID string, view model.View) (storefront.Page, error)
	SelectProduct(clientID, productID string) (storefront.Page, error)
	Products(category string) []model.Product
	Login(clientID, email, password string) (storefront.Page, error)
	Signup(clientID, name, email, password string) (storefront.Page, error)
	Logout(clientID string) (storefront.Page, error)
	AddToCart(clientID, productID string, size int) (storefront.Page, error)
	RemoveFromCart(clientID, productID string) (storefront.Page, error)
	UpdateQuantity(clientID, productID string, quantity int) (storefront.Page, error)
	Checkout(clientID string) (storefront.Page, error)
	SubmitPayment(clientID string) (storefront.Page, error)
	CompleteCheckout(clientID string) (storefront.Page, error)
	Orders(clientID string) ([]model.Order, error)
	Dashboard(clientID string) (*storefront.Dashboard, error)
	AddProduct(clientID string, draft storefront.ProductDraft) (storefront.Page, error)
	GenerateDescription(ctx context.Context, clientID, name, category, keywords string) (string, error)
}

// Handler реализует HTTP-обработчики API витрины.
type Handler struct {
	service          Service
	logger           *zap.Logger
	clientMiddleware *middleware.ClientMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, client *middleware.ClientMiddleware) *Handler {
	return &Handler{
		service:          s,
		logger:           logger,
		clientMiddleware: client,
	}
}

// View возвращает страницу текущего экрана клиента.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "view", func(clientID string) (storefront.Page, error) {
		return h.service.Page(clientID, r.URL.Query().Get("category"))
	})
}

type navigateRequest struct {
	View model.View `json:"view"`
}

// Navigate переключает экран клиента.
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if !decode(w, r, &req) {
		return
	}

	h.respond(w, r, "navigate", func(clientID string) (storefront.Page, error) {
		return h.service.Navigate(clientID, req.View)
	})
}

// SelectProduct открывает карточку товара.
func (h *Handler) SelectProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	h.respond(w, r, "select product", func(clientID string) (storefront.Page, error) {
		return h.service.SelectProduct(clientID, productID)
	})
}

// Products возвращает каталог с фильтром по категории.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Products(r.URL.Query().Get("category")))
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login выполняет мок-вход клиента.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}

	h.respond(w, r, "login", func(clientID string) (storefront.Page, error) {
		return h.service.Login(clientID, req.Email, req.Password)
	})
}

// Signup выполняет мок-регистрацию клиента.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}

	h.respond(w, r, "signup", func(clientID string) (storefront.Page, error) {
		return h.service.Signup(clientID, req.Name, req.Email, req.Password)
	})
}

// Logout завершает сессию клиента.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "logout", h.service.Logout)
}

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Size      int    `json:"size"`
}

// AddToCart добавляет товар в корзину.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if !decode(w, r, &req) {
		return
	}

	if req.ProductID == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	h.respond(w, r, "add to cart", func(clientID string) (storefront.Page, error) {
		return h.service.AddToCart(clientID, req.ProductID, req.Size)
	})
}

// RemoveFromCart удаляет товар из корзины.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	h.respond(w, r, "remove from cart", func(clientID string) (storefront.Page, error) {
		return h.service.RemoveFromCart(clientID, productID)
	})
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateQuantity меняет количество товара в корзине.
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	var req quantityRequest
	if !decode(w, r, &req) {
		return
	}

	h.respond(w, r, "update quantity", func(clientID string) (storefront.Page, error) {
		return h.service.UpdateQuantity(clientID, productID, req.Quantity)
	})
}

// Checkout открывает экран оформления заказа.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "checkout", h.service.Checkout)
}

// SubmitPayment запускает имитацию оплаты.
func (h *Handler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "submit payment", h.service.SubmitPayment)
}

// CompleteCheckout оформляет заказ без ожидания таймера.
func (h *Handler) CompleteCheckout(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "complete checkout", h.service.CompleteCheckout)
}

// GetOrders возвращает историю заказов текущего пользователя.
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientFromRequest(w, r)
	if !ok {
		return
	}

	orders, err := h.service.Orders(clientID)
	if err != nil {
		h.writeError(w, "get orders", clientID, err)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetDashboard возвращает данные панели администратора.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientFromRequest(w, r)
	if !ok {
		return
	}

	d, err := h.service.Dashboard(clientID)
	if err != nil {
		h.writeError(w, "get dashboard", clientID, err)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// AddProduct добавляет товар в каталог.
func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var draft storefront.ProductDraft
	if !decode(w, r, &draft) {
		return
	}

	h.respond(w, r, "add product", func(clientID string) (storefront.Page, error) {
		return h.service.AddProduct(clientID, draft)
	})
}

type descriptionRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Keywords string `json:"keywords"`
}

type descriptionResponse struct {
	Description string `json:"description"`
}

// GenerateDescription запрашивает описание товара у AI-сервиса.
func (h *Handler) GenerateDescription(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientFromRequest(w, r)
	if !ok {
		return
	}

	var req descriptionRequest
	if !decode(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	text, err := h.service.GenerateDescription(r.Context(), clientID, req.Name, req.Category, req.Keywords)
	if err != nil {
		h.writeError(w, "generate description", clientID, err)
		return
	}

	writeJSON(w, http.StatusOK, descriptionResponse{Description: text})
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, op string, fn func(clientID string) (storefront.Page, error)) {
	clientID, ok := clientFromRequest(w, r)
	if !ok {
		return
	}

	page, err := fn(clientID)
	if err != nil {
		h.writeError(w, op, clientID, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) writeError(w http.ResponseWriter, op, clientID string, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(op+" error", zap.Error(err), zap.String("client", clientID))
	}
	http.Error(w, http.StatusText(status), status)
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, storefront.ErrUnknownView):
		return http.StatusBadRequest
	case errors.Is(err, storefront.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, storefront.ErrCheckoutInProgress),
		errors.Is(err, storefront.ErrInvalidTransition),
		errors.Is(err, service.ErrGenerationInProgress),
		errors.Is(err, repository.ErrProductExists):
		return http.StatusConflict
	case errors.Is(err, validation.ErrEmptyName),
		errors.Is(err, validation.ErrInvalidPrice),
		errors.Is(err, validation.ErrInvalidSize):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storefront.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func clientFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
	}
	return clientID, ok
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
