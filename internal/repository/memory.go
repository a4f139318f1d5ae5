// Package repository содержит in-memory хранилища каталога и журнала заказов.
package repository

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mmeshcher/solemates/internal/model"
)

var (
	// ErrProductNotFound возвращается, если товар с указанным идентификатором отсутствует в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductExists возвращается при попытке добавить товар с уже занятым идентификатором.
	ErrProductExists = errors.New("product already exists")
)

// CatalogStore хранит список товаров. Новые товары добавляются в начало списка.
type CatalogStore struct {
	mu       sync.RWMutex
	products []model.Product
}

// NewCatalogStore создаёт каталог из переданного списка товаров.
func NewCatalogStore(products []model.Product) *CatalogStore {
	cp := make([]model.Product, len(products))
	copy(cp, products)
	return &CatalogStore{products: cp}
}

// List возвращает копию списка товаров в порядке отображения.
func (c *CatalogStore) List() []model.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get возвращает товар по идентификатору.
func (c *CatalogStore) Get(id string) (model.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.products {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
}

// Prepend добавляет товар в начало каталога.
func (c *CatalogStore) Prepend(p model.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.products {
		if existing.ID == p.ID {
			return fmt.Errorf("%w: %s", ErrProductExists, p.ID)
		}
	}

	c.products = append([]model.Product{p}, c.products...)
	return nil
}

// Len возвращает количество товаров в каталоге.
func (c *CatalogStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}

// OrderLedger хранит оформленные заказы, новые в начале. Заказы только добавляются.
type OrderLedger struct {
	mu     sync.RWMutex
	orders []model.Order
	seq    int64
}

// orderSeqStart задаёт первый номер последовательности, чтобы идентификаторы были четырёхзначными.
const orderSeqStart = 1000

// NewOrderLedger создаёт журнал с начальными заказами.
func NewOrderLedger(orders []model.Order) *OrderLedger {
	cp := make([]model.Order, len(orders))
	copy(cp, orders)
	return &OrderLedger{orders: cp, seq: orderSeqStart - 1}
}

// NextOrderID выдаёт уникальный в пределах запуска идентификатор заказа.
func (l *OrderLedger) NextOrderID(now time.Time) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	return fmt.Sprintf("ORD-%d-%d", l.seq, now.Year())
}

// Prepend добавляет заказ в начало журнала.
func (l *OrderLedger) Prepend(o model.Order) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.orders = append([]model.Order{o}, l.orders...)
}

// List возвращает все заказы, новые первыми.
func (l *OrderLedger) List() []model.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.Order, len(l.orders))
	copy(out, l.orders)
	return out
}

// ByUser возвращает заказы указанного пользователя, новые первыми.
func (l *OrderLedger) ByUser(userID string) []model.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var res []model.Order
	for _, o := range l.orders {
		if o.UserID == userID {
			res = append(res, o)
		}
	}
	return res
}

// Len возвращает количество заказов в журнале.
func (l *OrderLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.orders)
}
