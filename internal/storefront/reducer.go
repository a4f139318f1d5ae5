package storefront

import (
	"fmt"
	"strings"

	"github.com/mmeshcher/solemates/internal/cart"
	"github.com/mmeshcher/solemates/internal/model"
	"github.com/mmeshcher/solemates/internal/validation"
)

const (
	defaultProductCategory = "Casual"
	defaultProductImage    = "https://picsum.photos/400/400"
)

var defaultProductSizes = []int{7, 8, 9, 10, 11}

// Effects описывает изменения общих хранилищ, произошедшие при обработке действия.
type Effects struct {
	PlacedOrder  *model.Order
	AddedProduct *model.Product
}

// Reduce применяет действие к состоянию и возвращает новое состояние.
// При ошибке возвращается исходное состояние без изменений.
func Reduce(env Env, s State, a Action) (State, Effects, error) {
	var (
		next = s
		eff  Effects
		err  error
	)

	switch act := a.(type) {
	case Navigate:
		if !act.View.Valid() {
			return s, eff, fmt.Errorf("%w: %q", ErrUnknownView, act.View)
		}
		next.View = act.View

	case SelectProduct:
		p, getErr := env.Catalog.Get(act.ProductID)
		if getErr != nil {
			return s, eff, getErr
		}
		next.Selected = model.Some(p)
		next.View = model.ViewProductDetails

	case Login:
		next = reduceLogin(s, act.Identity)

	case Logout:
		next = reduceLogout(s)

	case AddToCart:
		p, getErr := env.Catalog.Get(act.ProductID)
		if getErr != nil {
			return s, eff, getErr
		}
		next.Cart = cart.Add(s.Cart, p, act.Size)

	case RemoveFromCart:
		next.Cart = cart.Remove(s.Cart, act.ProductID)

	case UpdateQuantity:
		next.Cart = cart.UpdateQuantity(s.Cart, act.ProductID, act.Quantity)

	case Checkout:
		next.View = model.ViewCheckout

	case SubmitPayment:
		next, err = reduceSubmitPayment(s)
		if err != nil {
			return s, eff, err
		}

	case paymentProcessed:
		next = reducePaymentProcessed(s)

	case CompleteCheckout:
		next, eff.PlacedOrder = reduceCompleteCheckout(env, s)

	case AddProduct:
		if !s.IsAdmin() {
			return s, eff, ErrForbidden
		}
		p, buildErr := buildProduct(env, act.Draft)
		if buildErr != nil {
			return s, eff, buildErr
		}
		if err := env.Catalog.Prepend(p); err != nil {
			return s, eff, err
		}
		eff.AddedProduct = &p

	default:
		return s, eff, fmt.Errorf("unsupported action %T", a)
	}

	// Имитация оплаты живёт только на экране оформления заказа.
	if next.View != model.ViewCheckout {
		next.Checkout = CheckoutIdle
	}

	return next, eff, nil
}

func buildProduct(env Env, d ProductDraft) (model.Product, error) {
	if err := validation.ValidateProductDraft(d.Name, d.Price); err != nil {
		return model.Product{}, err
	}

	category := strings.TrimSpace(d.Category)
	if category == "" {
		category = defaultProductCategory
	}
	image := strings.TrimSpace(d.Image)
	if image == "" {
		image = defaultProductImage
	}

	sizes := make([]int, len(defaultProductSizes))
	copy(sizes, defaultProductSizes)

	return model.Product{
		ID:          env.NewID(),
		Name:        strings.TrimSpace(d.Name),
		Price:       d.Price,
		Category:    category,
		Description: d.Description,
		Image:       image,
		Sizes:       sizes,
	}, nil
}
