package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/solemates/internal/model"
	"github.com/mmeshcher/solemates/internal/repository"
	"github.com/mmeshcher/solemates/internal/storefront"
	"github.com/mmeshcher/solemates/internal/validation"
)

type stubDescriber struct {
	mu    sync.Mutex
	calls []string

	started chan struct{}
	release chan struct{}
}

func (s *stubDescriber) Generate(ctx context.Context, name, category, keywords string) string {
	s.mu.Lock()
	s.calls = append(s.calls, name+"|"+category+"|"+keywords)
	s.mu.Unlock()

	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	return "Generated for " + name
}

func newTestService(t *testing.T, d Describer) *Service {
	t.Helper()

	svc := NewService(
		repository.NewCatalogStore(repository.SeedProducts()),
		repository.NewOrderLedger(repository.SeedOrders()),
		repository.SeedSales(),
		d,
		nil,
		storefront.WithDelays(time.Hour, time.Hour),
	)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestClientsAreIsolated(t *testing.T) {
	svc := newTestService(t, &stubDescriber{})

	_, err := svc.AddToCart("alice", "1", 10)
	require.NoError(t, err)

	alice, err := svc.Page("alice", "")
	require.NoError(t, err)
	bob, err := svc.Page("bob", "")
	require.NoError(t, err)

	assert.Equal(t, 1, alice.CartItemCount)
	assert.Equal(t, 0, bob.CartItemCount)
}

func TestLoginRouting(t *testing.T) {
	svc := newTestService(t, &stubDescriber{})

	page, err := svc.Login("c1", "admin@solemates.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, model.ViewAdminDashboard, page.View)
	require.NotNil(t, page.Dashboard)
	assert.Equal(t, int64(19550), page.Dashboard.TotalRevenue)

	page, err = svc.Login("c2", "john@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, model.ViewHome, page.View)

	u, ok := page.Session.Get()
	require.True(t, ok)
	assert.Equal(t, "John Doe", u.Name)

	page, err = svc.Signup("c3", "", "new@example.com", "pw")
	require.NoError(t, err)
	u, _ = page.Session.Get()
	assert.Equal(t, "New User", u.Name)
	assert.Equal(t, model.RoleUser, u.Role)
}

func TestAddToCartValidation(t *testing.T) {
	svc := newTestService(t, &stubDescriber{})

	_, err := svc.AddToCart("c", "1", 5)
	assert.ErrorIs(t, err, validation.ErrInvalidSize)

	_, err = svc.AddToCart("c", "missing", 9)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	page, err := svc.Page("c", "")
	require.NoError(t, err)
	assert.Equal(t, 0, page.CartItemCount)
}

func TestCheckoutFlow(t *testing.T) {
	svc := newTestService(t, &stubDescriber{})

	_, err := svc.Login("c", "john@example.com", "")
	require.NoError(t, err)
	_, err = svc.AddToCart("c", "2", 8)
	require.NoError(t, err)
	_, err = svc.UpdateQuantity("c", "2", 2)
	require.NoError(t, err)

	page, err := svc.Checkout("c")
	require.NoError(t, err)
	require.NotNil(t, page.Checkout)
	assert.True(t, decimal.RequireFromString("179").Equal(page.Checkout.Total))

	page, err = svc.SubmitPayment("c")
	require.NoError(t, err)
	assert.Equal(t, storefront.CheckoutProcessing, page.Checkout.Phase)

	_, err = svc.SubmitPayment("c")
	assert.ErrorIs(t, err, storefront.ErrCheckoutInProgress)

	page, err = svc.CompleteCheckout("c")
	require.NoError(t, err)
	assert.Equal(t, model.ViewOrderHistory, page.View)
	assert.Equal(t, 0, page.CartItemCount)

	orders, err := svc.Orders("c")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.True(t, decimal.RequireFromString("179").Equal(orders[0].Total))
}

func TestOrdersForGuest(t *testing.T) {
	svc := newTestService(t, &stubDescriber{})

	orders, err := svc.Orders("guest")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestProducts(t *testing.T) {
	svc := newTestService(t, &stubDescriber{})

	assert.Len(t, svc.Products(""), 6)
	assert.Len(t, svc.Products(storefront.CategoryAll), 6)
	assert.Len(t, svc.Products("Running"), 2)
	assert.Empty(t, svc.Products("Sandals"))
}

func TestDashboardRequiresAdmin(t *testing.T) {
	svc := newTestService(t, &stubDescriber{})

	_, err := svc.Dashboard("c")
	assert.ErrorIs(t, err, storefront.ErrForbidden)

	_, err = svc.Login("c", "admin@solemates.com", "")
	require.NoError(t, err)

	d, err := svc.Dashboard("c")
	require.NoError(t, err)
	assert.Equal(t, 6, d.TotalProducts)
	assert.Equal(t, "+12.5%", d.Growth)
	assert.Len(t, d.WeeklySales, 7)
}

func TestAddProduct(t *testing.T) {
	svc := newTestService(t, &stubDescriber{})

	draft := storefront.ProductDraft{Name: "Desert Runner", Price: decimal.RequireFromString("99.99")}

	_, err := svc.AddProduct("c", draft)
	assert.ErrorIs(t, err, storefront.ErrForbidden)

	_, err = svc.Login("c", "admin@solemates.com", "")
	require.NoError(t, err)

	_, err = svc.AddProduct("c", storefront.ProductDraft{Name: "Free", Price: decimal.Zero})
	assert.ErrorIs(t, err, validation.ErrInvalidPrice)

	_, err = svc.AddProduct("c", draft)
	require.NoError(t, err)

	products := svc.Products("")
	require.Len(t, products, 7)
	assert.Equal(t, "Desert Runner", products[0].Name)
	assert.Equal(t, "Casual", products[0].Category)
	assert.NotEmpty(t, products[0].ID)
}

func TestGenerateDescription(t *testing.T) {
	d := &stubDescriber{}
	svc := newTestService(t, d)
	ctx := context.Background()

	_, err := svc.GenerateDescription(ctx, "c", "Velvet Loafer", "Formal", "")
	assert.ErrorIs(t, err, storefront.ErrForbidden)

	_, err = svc.Login("c", "admin@solemates.com", "")
	require.NoError(t, err)

	_, err = svc.GenerateDescription(ctx, "c", "  ", "Formal", "")
	assert.ErrorIs(t, err, validation.ErrEmptyName)

	text, err := svc.GenerateDescription(ctx, "c", "Velvet Loafer", "Formal", "")
	require.NoError(t, err)
	assert.Equal(t, "Generated for Velvet Loafer", text)
	assert.Equal(t, []string{"Velvet Loafer|Formal|" + DefaultKeywords}, d.calls)
}

func TestGenerateDescriptionInFlightGuard(t *testing.T) {
	d := &stubDescriber{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := newTestService(t, d)

	_, err := svc.Login("c", "admin@solemates.com", "")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := svc.GenerateDescription(context.Background(), "c", "Court King Elite", "Basketball", "grip")
		done <- err
	}()
	<-d.started

	_, err = svc.GenerateDescription(context.Background(), "c", "Court King Elite", "Basketball", "grip")
	assert.True(t, errors.Is(err, ErrGenerationInProgress), "got %v", err)

	close(d.release)
	require.NoError(t, <-done)

	d.started = nil
	_, err = svc.GenerateDescription(context.Background(), "c", "Court King Elite", "Basketball", "grip")
	require.NoError(t, err)
}

func activeClients(svc *Service) int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return len(svc.clients)
}

func TestEvictIdle(t *testing.T) {
	svc := newTestService(t, &stubDescriber{})

	_, err := svc.AddToCart("idle", "1", 10)
	require.NoError(t, err)
	_, err = svc.Page("active", "")
	require.NoError(t, err)
	require.Equal(t, 2, activeClients(svc))

	assert.Zero(t, svc.EvictIdle(time.Now(), time.Hour))

	svc.mu.Lock()
	svc.clients["idle"].touch(time.Now().Add(-2 * time.Hour))
	svc.mu.Unlock()

	assert.Equal(t, 1, svc.EvictIdle(time.Now(), time.Hour))
	assert.Equal(t, 1, activeClients(svc))

	page, err := svc.Page("idle", "")
	require.NoError(t, err)
	assert.Equal(t, 0, page.CartItemCount)
	assert.Equal(t, 2, activeClients(svc))
}

func TestEvictIdleCancelsPendingCheckout(t *testing.T) {
	svc := NewService(
		repository.NewCatalogStore(repository.SeedProducts()),
		repository.NewOrderLedger(nil),
		repository.SeedSales(),
		&stubDescriber{},
		nil,
		storefront.WithDelays(20*time.Millisecond, 20*time.Millisecond),
	)
	defer svc.Close()

	_, err := svc.AddToCart("c", "1", 10)
	require.NoError(t, err)
	_, err = svc.Checkout("c")
	require.NoError(t, err)
	_, err = svc.SubmitPayment("c")
	require.NoError(t, err)

	assert.Equal(t, 1, svc.EvictIdle(time.Now().Add(time.Hour), time.Minute))

	time.Sleep(100 * time.Millisecond)
	orders, err := svc.Orders("c")
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, svc.env.Ledger.ByUser(model.GuestUserID))
}

func TestStartEviction(t *testing.T) {
	svc := newTestService(t, &stubDescriber{})

	for _, id := range []string{"a", "b", "c"} {
		_, err := svc.Page(id, "")
		require.NoError(t, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.StartEviction(ctx, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return activeClients(svc) == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("eviction loop did not stop after cancel")
	}
}

func TestClose(t *testing.T) {
	svc := newTestService(t, &stubDescriber{})

	_, err := svc.Checkout("c")
	require.NoError(t, err)
	_, err = svc.SubmitPayment("c")
	require.NoError(t, err)

	require.NoError(t, svc.Close())
	require.NoError(t, svc.Close())

	_, err = svc.Page("c", "")
	assert.ErrorIs(t, err, storefront.ErrClosed)
}
