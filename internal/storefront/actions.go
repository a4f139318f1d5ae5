package storefront

import (
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/solemates/internal/model"
)

// Action описывает намерение пользователя, которое принимает контроллер.
// Набор действий закрыт: реализовать интерфейс можно только внутри пакета.
type Action interface {
	Name() string
	action()
}

// Navigate переключает текущий экран.
type Navigate struct {
	View model.View
}

// SelectProduct выбирает товар и открывает карточку товара.
type SelectProduct struct {
	ProductID string
}

// Login заменяет текущую сессию переданной личностью.
type Login struct {
	Identity model.User
}

// Logout завершает сессию и очищает корзину.
type Logout struct{}

// AddToCart добавляет единицу товара выбранного размера в корзину.
type AddToCart struct {
	ProductID string
	Size      int
}

// RemoveFromCart удаляет все позиции товара из корзины.
type RemoveFromCart struct {
	ProductID string
}

// UpdateQuantity устанавливает количество для позиций товара.
type UpdateQuantity struct {
	ProductID string
	Quantity  int
}

// Checkout открывает экран оформления заказа.
type Checkout struct{}

// SubmitPayment запускает имитацию оплаты: обработка, успех, автоматическое завершение.
type SubmitPayment struct{}

// CompleteCheckout превращает корзину в заказ.
type CompleteCheckout struct{}

// AddProduct добавляет товар в каталог. Доступно только администратору.
type AddProduct struct {
	Draft ProductDraft
}

// ProductDraft содержит поля формы создания товара.
type ProductDraft struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
}

// paymentProcessed переводит оплату из обработки в успех по таймеру.
type paymentProcessed struct{}

func (Navigate) Name() string         { return "navigate" }
func (SelectProduct) Name() string    { return "select_product" }
func (Login) Name() string            { return "login" }
func (Logout) Name() string           { return "logout" }
func (AddToCart) Name() string        { return "add_to_cart" }
func (RemoveFromCart) Name() string   { return "remove_from_cart" }
func (UpdateQuantity) Name() string   { return "update_quantity" }
func (Checkout) Name() string         { return "checkout" }
func (SubmitPayment) Name() string    { return "submit_payment" }
func (CompleteCheckout) Name() string { return "complete_checkout" }
func (AddProduct) Name() string       { return "add_product" }
func (paymentProcessed) Name() string { return "payment_processed" }

func (Navigate) action()         {}
func (SelectProduct) action()    {}
func (Login) action()            {}
func (Logout) action()           {}
func (AddToCart) action()        {}
func (RemoveFromCart) action()   {}
func (UpdateQuantity) action()   {}
func (Checkout) action()         {}
func (SubmitPayment) action()    {}
func (CompleteCheckout) action() {}
func (AddProduct) action()       {}
func (paymentProcessed) action() {}
