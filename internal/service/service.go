// Package service связывает HTTP-клиентов витрины с их состояниями и общими хранилищами.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/solemates/internal/metrics"
	"github.com/mmeshcher/solemates/internal/model"
	"github.com/mmeshcher/solemates/internal/storefront"
	"github.com/mmeshcher/solemates/internal/validation"
)

// DefaultKeywords подставляются, если ключевые слова для описания не заданы.
const DefaultKeywords = "comfortable, stylish, durable"

// ErrGenerationInProgress возвращается, если у клиента уже выполняется генерация описания.
var ErrGenerationInProgress = errors.New("description generation already in progress")

// Describer генерирует описание товара. Ошибки не возвращаются: реализация отдаёт текст-заглушку.
type Describer interface {
	Generate(ctx context.Context, name, category, keywords string) string
}

// DefaultIdleTimeout время бездействия, после которого состояние клиента удаляется.
const DefaultIdleTimeout = 30 * time.Minute

type client struct {
	ctrl       *storefront.Controller
	generating atomic.Bool
	lastSeen   atomic.Int64
}

func (c *client) touch(now time.Time) {
	c.lastSeen.Store(now.UnixNano())
}

func (c *client) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, c.lastSeen.Load()))
}

// Service содержит состояния клиентов и общие для них каталог и журнал заказов.
type Service struct {
	env       storefront.Env
	describer Describer
	logger    *zap.Logger
	opts      []storefront.Option

	mu      sync.Mutex
	clients map[string]*client
	closed  bool
}

// NewService создаёт сервис. Опции передаются каждому создаваемому контроллеру.
func NewService(catalog storefront.Catalog, ledger storefront.Ledger, sales []model.SalesPoint,
	describer Describer, logger *zap.Logger, opts ...storefront.Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		env: storefront.Env{
			Catalog: catalog,
			Ledger:  ledger,
			Sales:   sales,
			Now:     time.Now,
			NewID:   uuid.NewString,
		},
		describer: describer,
		logger:    logger,
		opts:      append([]storefront.Option{storefront.WithLogger(logger)}, opts...),
		clients:   make(map[string]*client),
	}
}

// Close останавливает таймеры оплаты всех клиентов.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	for id, c := range s.clients {
		c.ctrl.Close()
		delete(s.clients, id)
	}
	metrics.ActiveClients.Set(0)
	return nil
}

func (s *Service) client(clientID string) (*client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, storefront.ErrClosed
	}

	c, ok := s.clients[clientID]
	if !ok {
		c = &client{ctrl: storefront.NewController(s.env, s.opts...)}
		s.clients[clientID] = c
		metrics.ActiveClients.Set(float64(len(s.clients)))
		s.logger.Debug("client state created", zap.String("client", clientID))
	}
	c.touch(time.Now())
	return c, nil
}

// EvictIdle удаляет состояния клиентов, не обращавшихся дольше ttl, и возвращает их число.
// Незавершённая имитация оплаты удаляемого клиента отменяется.
func (s *Service) EvictIdle(now time.Time, ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, c := range s.clients {
		if c.idleSince(now) < ttl || c.generating.Load() {
			continue
		}
		c.ctrl.Close()
		delete(s.clients, id)
		evicted++
	}

	if evicted > 0 {
		metrics.ActiveClients.Set(float64(len(s.clients)))
		s.logger.Info("idle client states evicted", zap.Int("evicted", evicted), zap.Int("active", len(s.clients)))
	}
	return evicted
}

// StartEviction периодически удаляет состояния бездействующих клиентов.
// Блокируется до отмены ctx.
func (s *Service) StartEviction(ctx context.Context, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultIdleTimeout
	}

	interval := ttl / 2
	if interval > time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.EvictIdle(now, ttl)
		}
	}
}

func (s *Service) dispatch(clientID, category string, a storefront.Action) (storefront.Page, error) {
	c, err := s.client(clientID)
	if err != nil {
		return storefront.Page{}, err
	}
	if _, err := c.ctrl.Dispatch(a); err != nil {
		return storefront.Page{}, err
	}
	return c.ctrl.Render(category), nil
}

// Page возвращает страницу текущего экрана клиента.
func (s *Service) Page(clientID, category string) (storefront.Page, error) {
	c, err := s.client(clientID)
	if err != nil {
		return storefront.Page{}, err
	}
	return c.ctrl.Render(category), nil
}

// Navigate переключает экран клиента.
func (s *Service) Navigate(clientID string, view model.View) (storefront.Page, error) {
	return s.dispatch(clientID, "", storefront.Navigate{View: view})
}

// SelectProduct открывает карточку товара.
func (s *Service) SelectProduct(clientID, productID string) (storefront.Page, error) {
	return s.dispatch(clientID, "", storefront.SelectProduct{ProductID: productID})
}

// Products возвращает товары каталога выбранной категории.
func (s *Service) Products(category string) []model.Product {
	return storefront.FilterByCategory(s.env.Catalog.List(), category)
}

// Login выполняет мок-вход: пароль не проверяется, роль определяется по email.
func (s *Service) Login(clientID, email, _ string) (storefront.Page, error) {
	return s.dispatch(clientID, "", storefront.Login{Identity: storefront.IdentityFromEmail(email)})
}

// Signup выполняет мок-регистрацию с ролью user.
func (s *Service) Signup(clientID, name, email, _ string) (storefront.Page, error) {
	return s.dispatch(clientID, "", storefront.Login{Identity: storefront.SignupIdentity(name, email)})
}

// Logout завершает сессию клиента.
func (s *Service) Logout(clientID string) (storefront.Page, error) {
	return s.dispatch(clientID, "", storefront.Logout{})
}

// AddToCart проверяет размер и добавляет товар в корзину клиента.
func (s *Service) AddToCart(clientID, productID string, size int) (storefront.Page, error) {
	p, err := s.env.Catalog.Get(productID)
	if err != nil {
		return storefront.Page{}, err
	}
	if err := validation.ValidateSize(p, size); err != nil {
		return storefront.Page{}, err
	}
	return s.dispatch(clientID, "", storefront.AddToCart{ProductID: productID, Size: size})
}

// RemoveFromCart удаляет позиции товара из корзины.
func (s *Service) RemoveFromCart(clientID, productID string) (storefront.Page, error) {
	return s.dispatch(clientID, "", storefront.RemoveFromCart{ProductID: productID})
}

// UpdateQuantity меняет количество товара в корзине.
func (s *Service) UpdateQuantity(clientID, productID string, quantity int) (storefront.Page, error) {
	return s.dispatch(clientID, "", storefront.UpdateQuantity{ProductID: productID, Quantity: quantity})
}

// Checkout открывает экран оформления заказа.
func (s *Service) Checkout(clientID string) (storefront.Page, error) {
	return s.dispatch(clientID, "", storefront.Checkout{})
}

// SubmitPayment запускает имитацию оплаты.
func (s *Service) SubmitPayment(clientID string) (storefront.Page, error) {
	return s.dispatch(clientID, "", storefront.SubmitPayment{})
}

// CompleteCheckout немедленно оформляет заказ из корзины.
func (s *Service) CompleteCheckout(clientID string) (storefront.Page, error) {
	return s.dispatch(clientID, "", storefront.CompleteCheckout{})
}

// Orders возвращает историю заказов текущего пользователя клиента.
func (s *Service) Orders(clientID string) ([]model.Order, error) {
	c, err := s.client(clientID)
	if err != nil {
		return nil, err
	}

	orders := []model.Order{}
	if u, ok := c.ctrl.State().Session.Get(); ok {
		orders = append(orders, s.env.Ledger.ByUser(u.ID)...)
	}
	return orders, nil
}

// Dashboard возвращает данные панели администратора.
func (s *Service) Dashboard(clientID string) (*storefront.Dashboard, error) {
	c, err := s.client(clientID)
	if err != nil {
		return nil, err
	}
	if !c.ctrl.State().IsAdmin() {
		return nil, storefront.ErrForbidden
	}

	page := storefront.Render(s.env, storefront.State{
		View:    model.ViewAdminDashboard,
		Session: c.ctrl.State().Session,
	}, "")
	return page.Dashboard, nil
}

// AddProduct добавляет товар в каталог от имени администратора.
func (s *Service) AddProduct(clientID string, draft storefront.ProductDraft) (storefront.Page, error) {
	return s.dispatch(clientID, "", storefront.AddProduct{Draft: draft})
}

// GenerateDescription запрашивает описание товара. У одного клиента одновременно
// выполняется не более одного запроса.
func (s *Service) GenerateDescription(ctx context.Context, clientID, name, category, keywords string) (string, error) {
	c, err := s.client(clientID)
	if err != nil {
		return "", err
	}
	if !c.ctrl.State().IsAdmin() {
		return "", storefront.ErrForbidden
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", validation.ErrEmptyName
	}
	if strings.TrimSpace(keywords) == "" {
		keywords = DefaultKeywords
	}

	if !c.generating.CompareAndSwap(false, true) {
		return "", fmt.Errorf("client %s: %w", clientID, ErrGenerationInProgress)
	}
	defer c.generating.Store(false)

	return s.describer.Generate(ctx, name, category, keywords), nil
}
