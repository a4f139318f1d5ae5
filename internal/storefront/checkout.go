package storefront

import (
	"github.com/mmeshcher/solemates/internal/cart"
	"github.com/mmeshcher/solemates/internal/model"
)

// orderDateLayout формат даты заказа (YYYY-MM-DD).
const orderDateLayout = "2006-01-02"

func reduceSubmitPayment(s State) (State, error) {
	if s.View != model.ViewCheckout {
		return s, ErrInvalidTransition
	}
	if s.Checkout != CheckoutIdle {
		return s, ErrCheckoutInProgress
	}
	s.Checkout = CheckoutProcessing
	return s, nil
}

func reducePaymentProcessed(s State) State {
	if s.Checkout == CheckoutProcessing {
		s.Checkout = CheckoutSuccess
	}
	return s
}

// reduceCompleteCheckout оформляет заказ из корзины. Пустая корзина заказ не создаёт.
func reduceCompleteCheckout(env Env, s State) (State, *model.Order) {
	var placed *model.Order

	if len(s.Cart) > 0 {
		o := newOrder(env, s)
		env.Ledger.Prepend(o)
		s.Cart = cart.Clear()
		placed = &o
	}

	s.Checkout = CheckoutIdle
	if s.Session.Present() {
		s.View = model.ViewOrderHistory
	} else {
		s.View = model.ViewHome
	}
	return s, placed
}

func newOrder(env Env, s State) model.Order {
	now := env.Now()

	userID := model.GuestUserID
	if u, ok := s.Session.Get(); ok {
		userID = u.ID
	}

	items := make([]model.OrderItem, 0, len(s.Cart))
	for _, l := range s.Cart {
		items = append(items, model.OrderItem{
			ProductID:    l.ID,
			Name:         l.Name,
			Price:        l.Price,
			Quantity:     l.Quantity,
			Image:        l.Image,
			SelectedSize: l.SelectedSize,
		})
	}

	return model.Order{
		ID:     env.Ledger.NextOrderID(now),
		UserID: userID,
		Date:   now.Format(orderDateLayout),
		Total:  cart.Subtotal(s.Cart),
		Status: model.OrderStatusProcessing,
		Items:  items,
	}
}
