// Package validation содержит функции валидации входных данных.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/solemates/internal/model"
)

var (
	// ErrEmptyName возвращается, если название товара не заполнено.
	ErrEmptyName = errors.New("product name is required")
	// ErrInvalidPrice возвращается, если цена товара не положительна.
	ErrInvalidPrice = errors.New("product price must be positive")
	// ErrInvalidSize возвращается, если размер не входит в список размеров товара.
	ErrInvalidSize = errors.New("size is not available for product")
)

// ValidateProductDraft проверяет обязательные поля формы создания товара.
func ValidateProductDraft(name string, price decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidPrice, price.String())
	}
	return nil
}

// ValidateSize проверяет, что размер доступен для товара.
func ValidateSize(p model.Product, size int) error {
	if !p.HasSize(size) {
		return fmt.Errorf("%w: %s size %d", ErrInvalidSize, p.ID, size)
	}
	return nil
}
