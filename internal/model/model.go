// Package model содержит доменные сущности витрины SoleMates.
package model

import "github.com/shopspring/decimal"

// Role описывает роль пользователя в сессии.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User представляет аутентифицированного (мок) пользователя витрины.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin сообщает, обладает ли пользователь ролью администратора.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Product описывает товар каталога. После создания не изменяется.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Sizes       []int           `json:"sizes"`
}

// HasSize проверяет, доступен ли товар в указанном размере.
func (p Product) HasSize(size int) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// CartLine описывает позицию корзины. Ключ позиции: (ID товара, SelectedSize).
type CartLine struct {
	Product
	Quantity     int `json:"quantity"`
	SelectedSize int `json:"selectedSize"`
}

// LineTotal возвращает стоимость позиции: цена, умноженная на количество.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderStatus описывает статус заказа.
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
)

// GuestUserID используется как владелец заказа, оформленного без сессии.
const GuestUserID = "guest"

// OrderItem хранит снимок позиции корзины на момент оформления заказа.
type OrderItem struct {
	ProductID    string          `json:"productId"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	Image        string          `json:"image"`
	SelectedSize int             `json:"selectedSize"`
}

// Order описывает оформленный заказ.
type Order struct {
	ID     string          `json:"id"`
	UserID string          `json:"userId"`
	Date   string          `json:"date"`
	Total  decimal.Decimal `json:"total"`
	Status OrderStatus     `json:"status"`
	Items  []OrderItem     `json:"items"`
}

// View описывает экран приложения. В каждый момент активен ровно один экран.
type View string

const (
	ViewHome           View = "HOME"
	ViewProductDetails View = "PRODUCT_DETAILS"
	ViewCart           View = "CART"
	ViewCheckout       View = "CHECKOUT"
	ViewLogin          View = "LOGIN"
	ViewSignup         View = "SIGNUP"
	ViewAdminDashboard View = "ADMIN_DASHBOARD"
	ViewOrderHistory   View = "ORDER_HISTORY"
)

// Views перечисляет все известные экраны.
var Views = []View{
	ViewHome,
	ViewProductDetails,
	ViewCart,
	ViewCheckout,
	ViewLogin,
	ViewSignup,
	ViewAdminDashboard,
	ViewOrderHistory,
}

// Valid сообщает, входит ли экран в перечисление.
func (v View) Valid() bool {
	for _, known := range Views {
		if v == known {
			return true
		}
	}
	return false
}

// SalesPoint описывает одну точку недельного графика продаж.
type SalesPoint struct {
	Name  string `json:"name"`
	Sales int64  `json:"sales"`
}
