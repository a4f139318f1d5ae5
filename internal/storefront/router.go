package storefront

import (
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/solemates/internal/cart"
	"github.com/mmeshcher/solemates/internal/model"
)

// CategoryAll фильтр главной страницы без ограничения по категории.
const CategoryAll = "All"

// dashboardGrowth показатель роста на панели администратора (мок).
const dashboardGrowth = "+12.5%"

// Page содержит данные, необходимые для отрисовки текущего экрана.
type Page struct {
	View          model.View                 `json:"view"`
	Rendered      model.View                 `json:"rendered"`
	AccessDenied  bool                       `json:"accessDenied,omitempty"`
	Session       model.Optional[model.User] `json:"session"`
	CartItemCount int                        `json:"cartItemCount"`

	Home      *HomeContent     `json:"home,omitempty"`
	Product   *model.Product   `json:"product,omitempty"`
	Cart      *CartContent     `json:"cart,omitempty"`
	Checkout  *CheckoutContent `json:"checkout,omitempty"`
	Orders    *OrdersContent   `json:"orders,omitempty"`
	Dashboard *Dashboard       `json:"dashboard,omitempty"`
}

// HomeContent данные каталога на главной странице.
type HomeContent struct {
	Category   string          `json:"category"`
	Categories []string        `json:"categories"`
	Products   []model.Product `json:"products"`
}

// CartContent данные экрана корзины.
type CartContent struct {
	Lines    []model.CartLine `json:"lines"`
	Subtotal decimal.Decimal  `json:"subtotal"`
}

// CheckoutContent данные экрана оформления заказа.
type CheckoutContent struct {
	Total decimal.Decimal `json:"total"`
	Phase CheckoutPhase   `json:"phase"`
}

// OrdersContent история заказов текущего пользователя.
type OrdersContent struct {
	Orders []model.Order `json:"orders"`
}

// Dashboard данные панели администратора.
type Dashboard struct {
	TotalRevenue  int64              `json:"totalRevenue"`
	TotalProducts int                `json:"totalProducts"`
	Growth        string             `json:"growth"`
	WeeklySales   []model.SalesPoint `json:"weeklySales"`
	Inventory     []model.Product    `json:"inventory"`
}

// Render строит страницу для текущего экрана. Защита панели администратора
// выполняется здесь: сохранённый экран не меняется, но содержимое не отдаётся.
func Render(env Env, s State, category string) Page {
	page := Page{
		View:          s.View,
		Rendered:      s.View,
		Session:       s.Session,
		CartItemCount: cart.ItemCount(s.Cart),
	}

	switch s.View {
	case model.ViewHome:
		page.Home = renderHome(env, category)

	case model.ViewProductDetails:
		p, ok := s.Selected.Get()
		if !ok {
			page.Rendered = model.ViewHome
			page.Home = renderHome(env, category)
			break
		}
		page.Product = &p

	case model.ViewCart:
		page.Cart = &CartContent{
			Lines:    s.Cart,
			Subtotal: cart.Subtotal(s.Cart),
		}

	case model.ViewCheckout:
		page.Checkout = &CheckoutContent{
			Total: cart.Subtotal(s.Cart),
			Phase: s.Checkout,
		}

	case model.ViewOrderHistory:
		orders := []model.Order{}
		if u, ok := s.Session.Get(); ok {
			orders = append(orders, env.Ledger.ByUser(u.ID)...)
		}
		page.Orders = &OrdersContent{Orders: orders}

	case model.ViewAdminDashboard:
		if !s.IsAdmin() {
			page.AccessDenied = true
			break
		}
		page.Dashboard = renderDashboard(env)

	case model.ViewLogin, model.ViewSignup:
		// формы входа и регистрации не требуют данных

	default:
		page.Rendered = model.ViewHome
		page.Home = renderHome(env, category)
	}

	return page
}

func renderHome(env Env, category string) *HomeContent {
	if category == "" {
		category = CategoryAll
	}

	products := env.Catalog.List()

	categories := []string{CategoryAll}
	seen := map[string]bool{}
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}

	return &HomeContent{
		Category:   category,
		Categories: categories,
		Products:   FilterByCategory(products, category),
	}
}

// FilterByCategory возвращает товары категории. Пустая категория и CategoryAll не фильтруют.
func FilterByCategory(products []model.Product, category string) []model.Product {
	if category == "" || category == CategoryAll {
		return products
	}

	filtered := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func renderDashboard(env Env) *Dashboard {
	var revenue int64
	for _, p := range env.Sales {
		revenue += p.Sales
	}

	products := env.Catalog.List()

	return &Dashboard{
		TotalRevenue:  revenue,
		TotalProducts: len(products),
		Growth:        dashboardGrowth,
		WeeklySales:   env.Sales,
		Inventory:     products,
	}
}
