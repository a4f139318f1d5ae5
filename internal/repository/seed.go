package repository

import (
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/solemates/internal/model"
)

// SeedProducts возвращает стартовый каталог витрины.
func SeedProducts() []model.Product {
	return []model.Product{
		{
			ID:          "1",
			Name:        "Air Strider X1",
			Price:       decimal.RequireFromString("129.99"),
			Category:    "Running",
			Description: "Engineered for the long haul. The Air Strider X1 features responsive cushioning and a breathable mesh upper for maximum comfort during your daily runs.",
			Image:       "https://picsum.photos/400/400?random=1",
			Sizes:       []int{7, 8, 9, 10, 11, 12},
		},
		{
			ID:          "2",
			Name:        "Urban Glide Low",
			Price:       decimal.RequireFromString("89.50"),
			Category:    "Casual",
			Description: "Street style meets everyday comfort. Minimalist design with a durable rubber sole, perfect for navigating the city jungle.",
			Image:       "https://picsum.photos/400/400?random=2",
			Sizes:       []int{6, 7, 8, 9, 10},
		},
		{
			ID:          "3",
			Name:        "Trail Blazer Pro",
			Price:       decimal.RequireFromString("159.00"),
			Category:    "Hiking",
			Description: "Conquer any terrain. Rugged traction, waterproof lining, and ankle support make the Trail Blazer Pro your best companion on the mountain.",
			Image:       "https://picsum.photos/400/400?random=3",
			Sizes:       []int{8, 9, 10, 11, 12, 13},
		},
		{
			ID:          "4",
			Name:        "Court King Elite",
			Price:       decimal.RequireFromString("110.00"),
			Category:    "Basketball",
			Description: "Dominate the court. High-top support with pivot-point traction patterns to enhance your agility and jump height.",
			Image:       "https://picsum.photos/400/400?random=4",
			Sizes:       []int{9, 10, 11, 12},
		},
		{
			ID:          "5",
			Name:        "Velvet Loafer",
			Price:       decimal.RequireFromString("200.00"),
			Category:    "Formal",
			Description: "Sophistication redefined. Premium velvet finish with leather lining, ideal for black-tie events and upscale gatherings.",
			Image:       "https://picsum.photos/400/400?random=5",
			Sizes:       []int{7, 8, 9, 10},
		},
		{
			ID:          "6",
			Name:        "Speed Demon 5",
			Price:       decimal.RequireFromString("145.00"),
			Category:    "Running",
			Description: "Our lightest racing shoe yet. Carbon fiber plate technology propels you forward with every stride.",
			Image:       "https://picsum.photos/400/400?random=6",
			Sizes:       []int{6, 7, 8, 9, 10, 11},
		},
	}
}

// SeedOrders возвращает историю заказов мок-пользователя.
func SeedOrders() []model.Order {
	return []model.Order{
		{
			ID:     "ORD-7782-34",
			UserID: "123",
			Date:   "2023-10-15",
			Total:  decimal.RequireFromString("219.50"),
			Status: model.OrderStatusDelivered,
			Items: []model.OrderItem{
				{
					ProductID:    "1",
					Name:         "Air Strider X1",
					Price:        decimal.RequireFromString("129.99"),
					Quantity:     1,
					Image:        "https://picsum.photos/400/400?random=1",
					SelectedSize: 10,
				},
				{
					ProductID:    "2",
					Name:         "Urban Glide Low",
					Price:        decimal.RequireFromString("89.50"),
					Quantity:     1,
					Image:        "https://picsum.photos/400/400?random=2",
					SelectedSize: 9,
				},
			},
		},
		{
			ID:     "ORD-9921-11",
			UserID: "123",
			Date:   "2023-11-05",
			Total:  decimal.RequireFromString("159.00"),
			Status: model.OrderStatusProcessing,
			Items: []model.OrderItem{
				{
					ProductID:    "3",
					Name:         "Trail Blazer Pro",
					Price:        decimal.RequireFromString("159.00"),
					Quantity:     1,
					Image:        "https://picsum.photos/400/400?random=3",
					SelectedSize: 11,
				},
			},
		},
	}
}

// SeedSales возвращает недельную статистику продаж для панели администратора.
func SeedSales() []model.SalesPoint {
	return []model.SalesPoint{
		{Name: "Mon", Sales: 4000},
		{Name: "Tue", Sales: 3000},
		{Name: "Wed", Sales: 2000},
		{Name: "Thu", Sales: 2780},
		{Name: "Fri", Sales: 1890},
		{Name: "Sat", Sales: 2390},
		{Name: "Sun", Sales: 3490},
	}
}
