// Package storefront реализует машину состояний витрины: маршрутизацию экранов,
// редьюсеры корзины, сессии и заказов и имитацию оплаты с таймерами.
//
// Состоянием одного клиента владеет Controller. Любое изменение проходит через
// Dispatch: действие -> Reduce -> новое состояние. Каталог и журнал заказов
// общие для всех клиентов и передаются через Env.
package storefront

import (
	"errors"
	"time"

	"github.com/mmeshcher/solemates/internal/model"
)

var (
	// ErrUnknownView возвращается при переходе на экран вне перечисления.
	ErrUnknownView = errors.New("unknown view")
	// ErrForbidden возвращается, если действие требует роли администратора.
	ErrForbidden = errors.New("admin role required")
	// ErrCheckoutInProgress возвращается при повторной отправке оплаты.
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	// ErrInvalidTransition возвращается, если действие недопустимо на текущем экране.
	ErrInvalidTransition = errors.New("action not allowed in current view")
	// ErrClosed возвращается после Close контроллера.
	ErrClosed = errors.New("controller closed")
)

// Catalog описывает хранилище товаров, используемое редьюсером.
type Catalog interface {
	List() []model.Product
	Get(id string) (model.Product, error)
	Prepend(p model.Product) error
}

// Ledger описывает журнал заказов, используемый редьюсером.
type Ledger interface {
	NextOrderID(now time.Time) string
	Prepend(o model.Order)
	ByUser(userID string) []model.Order
}

// Env содержит общие зависимости редьюсера.
type Env struct {
	Catalog Catalog
	Ledger  Ledger
	Sales   []model.SalesPoint
	Now     func() time.Time
	NewID   func() string
}

// CheckoutPhase описывает этап имитации оплаты.
type CheckoutPhase string

const (
	CheckoutIdle       CheckoutPhase = "idle"
	CheckoutProcessing CheckoutPhase = "processing"
	CheckoutSuccess    CheckoutPhase = "success"
)

// State состояние приложения одного клиента.
type State struct {
	View     model.View
	Session  model.Optional[model.User]
	Cart     []model.CartLine
	Selected model.Optional[model.Product]
	Checkout CheckoutPhase
}

// InitialState возвращает состояние гостя на главном экране.
func InitialState() State {
	return State{
		View:     model.ViewHome,
		Session:  model.None[model.User](),
		Cart:     []model.CartLine{},
		Selected: model.None[model.Product](),
		Checkout: CheckoutIdle,
	}
}

// IsAdmin сообщает, активна ли сессия администратора.
func (s State) IsAdmin() bool {
	u, ok := s.Session.Get()
	return ok && u.IsAdmin()
}
