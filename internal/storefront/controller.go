package storefront

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/solemates/internal/metrics"
)

const (
	// DefaultProcessingDelay время имитации обработки платежа.
	DefaultProcessingDelay = 2 * time.Second
	// DefaultRedirectDelay время показа экрана успеха до автоматического завершения.
	DefaultRedirectDelay = 3 * time.Second
)

// Option настраивает Controller.
type Option func(*Controller)

// WithDelays задаёт длительность этапов имитации оплаты.
func WithDelays(processing, redirect time.Duration) Option {
	return func(c *Controller) {
		c.processingDelay = processing
		c.redirectDelay = redirect
	}
}

// WithLogger задаёт логгер контроллера.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// Controller владеет состоянием одного клиента и последовательно применяет к нему действия.
type Controller struct {
	mu    sync.Mutex
	env   Env
	state State

	processingDelay time.Duration
	redirectDelay   time.Duration
	logger          *zap.Logger

	timer  *time.Timer
	gen    uint64
	closed bool
}

// NewController создаёт контроллер с начальным состоянием гостя.
func NewController(env Env, opts ...Option) *Controller {
	if env.Now == nil {
		env.Now = time.Now
	}

	c := &Controller{
		env:             env,
		state:           InitialState(),
		processingDelay: DefaultProcessingDelay,
		redirectDelay:   DefaultRedirectDelay,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dispatch применяет действие и возвращает новое состояние.
func (c *Controller) Dispatch(a Action) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return c.state, ErrClosed
	}
	return c.dispatchLocked(a)
}

// State возвращает текущее состояние.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Render строит страницу текущего экрана.
func (c *Controller) Render(category string) Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Render(c.env, c.state, category)
}

// Close отменяет незавершённую имитацию оплаты. После Close действия не принимаются.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if c.state.Checkout != CheckoutIdle {
		metrics.CheckoutsCancelled.Inc()
	}
	c.stopTimerLocked()
	c.closed = true
}

func (c *Controller) dispatchLocked(a Action) (State, error) {
	prev := c.state

	next, eff, err := Reduce(c.env, prev, a)
	if err != nil {
		metrics.ActionsTotal.WithLabelValues(a.Name(), "error").Inc()
		return prev, err
	}
	metrics.ActionsTotal.WithLabelValues(a.Name(), "ok").Inc()

	c.state = next
	c.scheduleLocked(a, prev.Checkout, next.Checkout)

	if o := eff.PlacedOrder; o != nil {
		metrics.OrdersTotal.WithLabelValues(string(o.Status)).Inc()
		metrics.OrderAmount.Observe(o.Total.InexactFloat64())
		c.logger.Info("order placed",
			zap.String("order", o.ID),
			zap.String("user", o.UserID),
			zap.String("total", o.Total.StringFixed(2)),
			zap.Int("items", len(o.Items)),
		)
	}
	if p := eff.AddedProduct; p != nil {
		c.logger.Info("product added", zap.String("product", p.ID), zap.String("name", p.Name))
	}

	return next, nil
}

// scheduleLocked запускает или отменяет таймеры по смене этапа оплаты.
func (c *Controller) scheduleLocked(a Action, from, to CheckoutPhase) {
	if from == to {
		return
	}

	c.stopTimerLocked()

	switch to {
	case CheckoutProcessing:
		c.startTimerLocked(c.processingDelay, paymentProcessed{})
	case CheckoutSuccess:
		c.startTimerLocked(c.redirectDelay, CompleteCheckout{})
	case CheckoutIdle:
		if _, completed := a.(CompleteCheckout); !completed {
			metrics.CheckoutsCancelled.Inc()
			c.logger.Debug("checkout flow cancelled",
				zap.String("phase", string(from)),
				zap.String("action", a.Name()),
			)
		}
	}
}

func (c *Controller) startTimerLocked(d time.Duration, a Action) {
	c.gen++
	gen := c.gen
	c.timer = time.AfterFunc(d, func() {
		c.fire(gen, a)
	})
}

func (c *Controller) stopTimerLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) fire(gen uint64, a Action) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Таймер, отменённый после срабатывания, но до захвата блокировки.
	if c.closed || gen != c.gen {
		return
	}
	c.timer = nil

	if _, err := c.dispatchLocked(a); err != nil {
		c.logger.Error("checkout timer action failed", zap.String("action", a.Name()), zap.Error(err))
	}
}
