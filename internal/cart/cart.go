// Package cart реализует редьюсер корзины: чистые функции над списком позиций.
//
// Функции пакета не изменяют входной срез и всегда возвращают новый.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/solemates/internal/model"
)

// Add увеличивает количество позиции (product.ID, size) на единицу
// либо добавляет новую позицию с количеством 1. Размер не проверяется.
func Add(lines []model.CartLine, product model.Product, size int) []model.CartLine {
	out := clone(lines)
	for i := range out {
		if out[i].ID == product.ID && out[i].SelectedSize == size {
			out[i].Quantity++
			return out
		}
	}

	return append(out, model.CartLine{
		Product:      product,
		Quantity:     1,
		SelectedSize: size,
	})
}

// Remove удаляет все позиции товара независимо от выбранного размера.
func Remove(lines []model.CartLine, productID string) []model.CartLine {
	out := make([]model.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.ID != productID {
			out = append(out, l)
		}
	}
	return out
}

// UpdateQuantity устанавливает количество для всех позиций товара.
// Значение меньше единицы удаляет эти позиции: в корзине не бывает нулевого количества.
func UpdateQuantity(lines []model.CartLine, productID string, quantity int) []model.CartLine {
	if quantity < 1 {
		return Remove(lines, productID)
	}

	out := clone(lines)
	for i := range out {
		if out[i].ID == productID {
			out[i].Quantity = quantity
		}
	}
	return out
}

// Clear возвращает пустую корзину.
func Clear() []model.CartLine {
	return []model.CartLine{}
}

// ItemCount возвращает суммарное количество единиц товара в корзине.
func ItemCount(lines []model.CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

// Subtotal возвращает сумму цена*количество по всем позициям.
func Subtotal(lines []model.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

func clone(lines []model.CartLine) []model.CartLine {
	out := make([]model.CartLine, len(lines), len(lines)+1)
	copy(out, lines)
	return out
}
