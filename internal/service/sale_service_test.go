package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/testutil"
	"go-pos-ws/pkg/metrics"

	"github.com/google/uuid"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type saleFixture struct {
	db       *gorm.DB
	uow      repository.UnitOfWork
	svc      *saleService
	metrics  *metrics.SaleMetrics
	notifier *recordingNotifier
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	db := testutil.NewDB(t)
	uow := repository.NewUnitOfWork(db, testutil.NewNode(t))
	f := &saleFixture{db: db, uow: uow, metrics: metrics.NewSaleMetrics(nil), notifier: &recordingNotifier{}}
	f.svc = f.service(uow)
	testutil.SeedStore(t, db, 1)
	return f
}

func (f *saleFixture) service(uow repository.UnitOfWork) *saleService {
	svc := NewSaleService(uow, repository.NewTransactionRepo(f.db), f.notifier, f.metrics, nil).(*saleService)
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC) }
	return svc
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []interface{}
}

func (n *recordingNotifier) Publish(event interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

// wrappedUoW lets a test swap the writers handed to the sale.
type wrappedUoW struct {
	inner repository.UnitOfWork
	wrap  func(repository.Writers) repository.Writers
}

func (u wrappedUoW) Do(ctx context.Context, fn func(w repository.Writers) error) error {
	return u.inner.Do(ctx, func(w repository.Writers) error {
		return fn(u.wrap(w))
	})
}

type failingRecorder struct {
	repository.OrderRecorder
	okDetails int
	calls     int
}

func (r *failingRecorder) RecordDetail(ctx context.Context, txID uuid.UUID, variationID uint, qty int, price int64) (uuid.UUID, error) {
	r.calls++
	if r.calls > r.okDetails {
		return uuid.Nil, fmt.Errorf("record detail: %w: disk full", repository.ErrPersistence)
	}
	return r.OrderRecorder.RecordDetail(ctx, txID, variationID, qty, price)
}

type orderSpyLedger struct {
	repository.StockLedger
	seen *[]uint
}

func (l orderSpyLedger) ReserveAndDecrement(ctx context.Context, variationID uint, quantity int) (int, error) {
	*l.seen = append(*l.seen, variationID)
	return l.StockLedger.ReserveAndDecrement(ctx, variationID, quantity)
}

type untouchableUoW struct{ t *testing.T }

func (u untouchableUoW) Do(context.Context, func(repository.Writers) error) error {
	u.t.Fatal("unit of work must not begin for an invalid cart")
	return nil
}

func TestProcessSale_HappyPath(t *testing.T) {
	f := newSaleFixture(t)
	testutil.SeedVariation(t, f.db, 3, 10, 15000)
	ctx := context.Background()

	cart := []model.CartLine{{VariationID: 3, Quantity: 2, PricePerUnit: 15000}}
	id, err := f.svc.ProcessSale(ctx, cart, 21, 1)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	assert.Equal(t, 8, testutil.Stock(t, f.db, 3))
	assert.EqualValues(t, 1, testutil.Count(t, f.db, &model.Transaction{}))
	assert.EqualValues(t, 1, testutil.Count(t, f.db, &model.TransactionDetail{}))

	got, err := f.svc.GetTransaction(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), got.Total)
	assert.Equal(t, uint(1), got.StoreID)
	assert.Equal(t, uint(21), got.CashierID)
	assert.True(t, got.Timestamp.Equal(time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)))
	require.Len(t, got.Details, 1)
	assert.Equal(t, uint(3), got.Details[0].VariationID)
	assert.Equal(t, 2, got.Details[0].Quantity)
	assert.Equal(t, int64(15000), got.Details[0].PricePerUnit)

	assert.Equal(t, 1, f.notifier.count())
	assert.Equal(t, float64(1), promtest.ToFloat64(f.metrics.Sales.WithLabelValues(metrics.OutcomeCommitted, "none")))
	assert.Equal(t, float64(2), promtest.ToFloat64(f.metrics.UnitsSold))
}

func TestProcessSale_ReadBackMatchesCart(t *testing.T) {
	f := newSaleFixture(t)
	testutil.SeedVariation(t, f.db, 1, 10, 1500)
	testutil.SeedVariation(t, f.db, 2, 10, 2500)
	testutil.SeedVariation(t, f.db, 9, 10, 0)
	ctx := context.Background()

	cart := []model.CartLine{
		{VariationID: 9, Quantity: 1, PricePerUnit: 0},
		{VariationID: 2, Quantity: 3, PricePerUnit: 2500},
		{VariationID: 1, Quantity: 2, PricePerUnit: 1200}, // discounted, differs from catalog
	}
	id, err := f.svc.ProcessSale(ctx, cart, 4, 1)
	require.NoError(t, err)

	got, err := f.svc.GetTransaction(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.Details, 3)

	var sum int64
	byVariation := map[uint]model.TransactionDetail{}
	for _, d := range got.Details {
		sum += d.Subtotal()
		byVariation[d.VariationID] = d
	}
	assert.Equal(t, got.Total, sum)
	assert.Equal(t, int64(2*1200+3*2500), got.Total)
	for _, line := range cart {
		d, ok := byVariation[line.VariationID]
		require.True(t, ok, "variation %d missing", line.VariationID)
		assert.Equal(t, line.Quantity, d.Quantity)
		assert.Equal(t, line.PricePerUnit, d.PricePerUnit)
	}

	// catalog price changes do not touch recorded sales
	require.NoError(t, f.db.Model(&model.Product{}).Where("sku = ?", "SKU-1").Update("price", 99999).Error)
	again, err := f.svc.GetTransaction(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, got.Total, again.Total)
}

func TestProcessSale_InvalidReferenceRollsBack(t *testing.T) {
	f := newSaleFixture(t)
	testutil.SeedVariation(t, f.db, 7, 10, 10000)

	cart := []model.CartLine{
		{VariationID: 7, Quantity: 2, PricePerUnit: 10000},
		{VariationID: 99, Quantity: 1, PricePerUnit: 5000},
	}
	id, err := f.svc.ProcessSale(context.Background(), cart, 21, 1)
	assert.Equal(t, uuid.Nil, id)
	require.ErrorIs(t, err, ErrInvalidReference)

	var saleErr *SaleError
	require.ErrorAs(t, err, &saleErr)
	assert.Equal(t, uint(99), saleErr.VariationID)

	assert.EqualValues(t, 0, testutil.Count(t, f.db, &model.Transaction{}))
	assert.EqualValues(t, 0, testutil.Count(t, f.db, &model.TransactionDetail{}))
	assert.Equal(t, 10, testutil.Stock(t, f.db, 7))
	assert.Equal(t, 0, f.notifier.count())
}

func TestProcessSale_OutOfStockRollsBackEarlierLines(t *testing.T) {
	f := newSaleFixture(t)
	testutil.SeedVariation(t, f.db, 1, 5, 1000)
	testutil.SeedVariation(t, f.db, 2, 1, 2000)

	// variation 1 is decremented first, then variation 2 runs out
	cart := []model.CartLine{
		{VariationID: 2, Quantity: 3, PricePerUnit: 2000},
		{VariationID: 1, Quantity: 2, PricePerUnit: 1000},
	}
	_, err := f.svc.ProcessSale(context.Background(), cart, 21, 1)
	require.ErrorIs(t, err, ErrOutOfStock)
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)

	var saleErr *SaleError
	require.ErrorAs(t, err, &saleErr)
	assert.Equal(t, uint(2), saleErr.VariationID)

	assert.Equal(t, 5, testutil.Stock(t, f.db, 1))
	assert.Equal(t, 1, testutil.Stock(t, f.db, 2))
	assert.EqualValues(t, 0, testutil.Count(t, f.db, &model.Transaction{}))
	assert.Equal(t, float64(1), promtest.ToFloat64(f.metrics.StockRejections.WithLabelValues("2")))
}

func TestProcessSale_PersistenceFailureRollsBack(t *testing.T) {
	f := newSaleFixture(t)
	testutil.SeedVariation(t, f.db, 1, 5, 1000)
	testutil.SeedVariation(t, f.db, 2, 5, 2000)

	svc := f.service(wrappedUoW{inner: f.uow, wrap: func(w repository.Writers) repository.Writers {
		w.Orders = &failingRecorder{OrderRecorder: w.Orders, okDetails: 1}
		return w
	}})

	cart := []model.CartLine{
		{VariationID: 1, Quantity: 1, PricePerUnit: 1000},
		{VariationID: 2, Quantity: 1, PricePerUnit: 2000},
	}
	_, err := svc.ProcessSale(context.Background(), cart, 21, 1)
	require.ErrorIs(t, err, ErrPersistence)

	assert.Equal(t, 5, testutil.Stock(t, f.db, 1))
	assert.Equal(t, 5, testutil.Stock(t, f.db, 2))
	assert.EqualValues(t, 0, testutil.Count(t, f.db, &model.Transaction{}))
	assert.EqualValues(t, 0, testutil.Count(t, f.db, &model.TransactionDetail{}))
}

func TestProcessSale_DecrementsInAscendingVariationOrder(t *testing.T) {
	f := newSaleFixture(t)
	for _, id := range []uint{4, 8, 15} {
		testutil.SeedVariation(t, f.db, id, 10, 100)
	}

	var seen []uint
	svc := f.service(wrappedUoW{inner: f.uow, wrap: func(w repository.Writers) repository.Writers {
		w.Stock = orderSpyLedger{StockLedger: w.Stock, seen: &seen}
		return w
	}})

	cart := []model.CartLine{
		{VariationID: 15, Quantity: 1, PricePerUnit: 100},
		{VariationID: 4, Quantity: 1, PricePerUnit: 100},
		{VariationID: 8, Quantity: 1, PricePerUnit: 100},
	}
	_, err := svc.ProcessSale(context.Background(), cart, 21, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{4, 8, 15}, seen)
	// caller's slice is left alone
	assert.Equal(t, uint(15), cart[0].VariationID)
}

func TestProcessSale_Validation(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewSaleService(untouchableUoW{t}, repository.NewTransactionRepo(db), nil, nil, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		cart []model.CartLine
		kind error
		line int
	}{
		{"EmptyCart", nil, ErrEmptyCart, -1},
		{"ZeroQuantity", []model.CartLine{{VariationID: 1, Quantity: 1, PricePerUnit: 10}, {VariationID: 2, Quantity: 0, PricePerUnit: 10}}, ErrInvalidQuantity, 1},
		{"NegativeQuantity", []model.CartLine{{VariationID: 1, Quantity: -2, PricePerUnit: 10}}, ErrInvalidQuantity, 0},
		{"NegativePrice", []model.CartLine{{VariationID: 1, Quantity: 1, PricePerUnit: -1}}, ErrInvalidPrice, 0},
		{"QuantityBeforePrice", []model.CartLine{{VariationID: 1, Quantity: 1, PricePerUnit: -5}, {VariationID: 2, Quantity: 0, PricePerUnit: 10}}, ErrInvalidQuantity, 1},
		{"SubtotalOverflow", []model.CartLine{{VariationID: 1, Quantity: 4, PricePerUnit: 1<<62 + 1}}, ErrInvalidPrice, 0},
		{"TotalOverflow", []model.CartLine{{VariationID: 1, Quantity: 1, PricePerUnit: math.MaxInt64 / 2}, {VariationID: 2, Quantity: 1, PricePerUnit: math.MaxInt64/2 + 2}}, ErrInvalidPrice, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := svc.ProcessSale(ctx, tc.cart, 21, 1)
			assert.Equal(t, uuid.Nil, id)
			require.ErrorIs(t, err, tc.kind)

			var saleErr *SaleError
			require.ErrorAs(t, err, &saleErr)
			assert.Equal(t, tc.line, saleErr.Line)
		})
	}
}

func TestProcessSale_OverflowingTotalIsNotRecorded(t *testing.T) {
	f := newSaleFixture(t)
	testutil.SeedVariation(t, f.db, 1, 10, 1000)

	id, err := f.svc.ProcessSale(context.Background(), []model.CartLine{
		{VariationID: 1, Quantity: 4, PricePerUnit: 1<<62 + 1},
	}, 21, 1)
	assert.Equal(t, uuid.Nil, id)
	require.ErrorIs(t, err, ErrInvalidPrice)
	assert.ErrorIs(t, err, model.ErrAmountOverflow)

	assert.Equal(t, 10, testutil.Stock(t, f.db, 1))
	assert.EqualValues(t, 0, testutil.Count(t, f.db, &model.Transaction{}))
}

func TestProcessSale_ConcurrentSalesOnSameVariation(t *testing.T) {
	f := newSaleFixture(t)
	testutil.SeedVariation(t, f.db, 5, 5, 1000)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	start := make(chan struct{})
	for cashier := uint(1); cashier <= 2; cashier++ {
		wg.Add(1)
		go func(cashier uint) {
			defer wg.Done()
			<-start
			_, err := f.svc.ProcessSale(context.Background(),
				[]model.CartLine{{VariationID: 5, Quantity: 3, PricePerUnit: 1000}}, cashier, 1)
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}(cashier)
	}
	close(start)
	wg.Wait()

	var ok, outOfStock int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrOutOfStock):
			outOfStock++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, outOfStock)
	assert.Equal(t, 2, testutil.Stock(t, f.db, 5))
	assert.EqualValues(t, 1, testutil.Count(t, f.db, &model.Transaction{}))
	assert.EqualValues(t, 1, testutil.Count(t, f.db, &model.TransactionDetail{}))
}

func TestProcessSale_CallerCancellationDoesNotInterruptCommit(t *testing.T) {
	f := newSaleFixture(t)
	testutil.SeedVariation(t, f.db, 3, 10, 500)

	ctx, cancel := context.WithCancel(context.Background())
	svc := f.service(wrappedUoW{inner: f.uow, wrap: func(w repository.Writers) repository.Writers {
		cancel() // the terminal gives up once the sale is already running
		return w
	}})

	_, err := svc.ProcessSale(ctx, []model.CartLine{{VariationID: 3, Quantity: 1, PricePerUnit: 500}}, 21, 1)
	require.NoError(t, err)
	assert.Equal(t, 9, testutil.Stock(t, f.db, 3))
}

func TestSaleError_Message(t *testing.T) {
	err := &SaleError{Kind: ErrOutOfStock, VariationID: 7, Line: -1, Err: repository.ErrInsufficientStock}
	assert.Equal(t, "out of stock (variation 7): insufficient stock remaining", err.Error())
	assert.True(t, errors.Is(err, repository.ErrInsufficientStock))
	assert.False(t, errors.Is(err, ErrPersistence))
}
