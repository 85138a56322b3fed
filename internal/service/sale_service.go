package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/pkg/logger"
	"go-pos-ws/pkg/metrics"
	"go-pos-ws/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaleState is the lifecycle of one ProcessSale call. Rejected, Committed
// and RolledBack are terminal.
type SaleState string

const (
	SaleStarted    SaleState = "STARTED"
	SaleValidating SaleState = "VALIDATING"
	SaleRejected   SaleState = "REJECTED"
	SaleInProgress SaleState = "IN_PROGRESS"
	SaleCommitted  SaleState = "COMMITTED"
	SaleRolledBack SaleState = "ROLLED_BACK"
)

type SaleService interface {
	// ProcessSale records a complete sale: header, one detail per line and
	// the stock decrements, all or nothing.
	ProcessSale(ctx context.Context, lines []model.CartLine, cashierID, storeID uint) (uuid.UUID, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	ListTransactions(ctx context.Context, storeID uint, limit int) ([]model.Transaction, error)
}

// SaleCommittedEvent is published after a sale has been committed.
type SaleCommittedEvent struct {
	Type          string         `json:"type"`
	Action        string         `json:"action"`
	TransactionID uuid.UUID      `json:"transaction_id"`
	StoreID       uint           `json:"store_id"`
	CashierID     uint           `json:"cashier_id"`
	Total         int64          `json:"total"`
	StockLevels   map[string]int `json:"stock_levels"`
	Message       string         `json:"message"`
}

type saleService struct {
	uow      repository.UnitOfWork
	txRepo   repository.TransactionRepository
	notifier Notifier
	metrics  *metrics.SaleMetrics
	log      *zap.Logger
	now      func() time.Time
}

func NewSaleService(uow repository.UnitOfWork, txRepo repository.TransactionRepository, notifier Notifier, m *metrics.SaleMetrics, log *zap.Logger) SaleService {
	if m == nil {
		m = metrics.NewSaleMetrics(nil)
	}
	return &saleService{
		uow:      uow,
		txRepo:   txRepo,
		notifier: notifierOrNop(notifier),
		metrics:  m,
		log:      logger.OrNop(log).Named("sale"),
		now:      time.Now,
	}
}

func (s *saleService) ProcessSale(ctx context.Context, lines []model.CartLine, cashierID, storeID uint) (uuid.UUID, error) {
	started := time.Now()
	log := s.log.With(
		zap.Uint("store_id", storeID),
		zap.Uint("cashier_id", cashierID),
		zap.Int("lines", len(lines)),
	)
	log.Debug("sale state", zap.String("state", string(SaleStarted)))

	// 1. Validasi cart, no storage access
	log.Debug("sale state", zap.String("state", string(SaleValidating)))
	if err := validateCart(lines); err != nil {
		s.finish(log, SaleRejected, started, err)
		return uuid.Nil, err
	}

	// 2. Ascending variation order keeps lock acquisition consistent across
	// concurrent sales sharing SKUs
	ordered := sortedLines(lines)
	total, totalErr := model.CartTotal(ordered)
	if totalErr != nil {
		rejected := &SaleError{Kind: ErrInvalidPrice, Line: -1, Err: totalErr}
		s.finish(log, SaleRejected, started, rejected)
		return uuid.Nil, rejected
	}
	at := s.now()
	levels := make(map[uint]int, len(ordered))

	// Once begun the unit of work runs to commit or rollback.
	work := context.WithoutCancel(ctx)

	log.Debug("sale state", zap.String("state", string(SaleInProgress)), zap.Int64("total", total))
	var txID uuid.UUID
	err := s.uow.Do(work, func(w repository.Writers) error {
		id, err := w.Orders.RecordHeader(work, storeID, cashierID, at, total)
		if err != nil {
			return classify(err, 0)
		}

		for _, line := range ordered {
			level, err := w.Stock.ReserveAndDecrement(work, line.VariationID, line.Quantity)
			if err != nil {
				return classify(err, line.VariationID)
			}
			levels[line.VariationID] = level

			if _, err := w.Orders.RecordDetail(work, id, line.VariationID, line.Quantity, line.PricePerUnit); err != nil {
				return classify(err, line.VariationID)
			}
		}

		txID = id
		return nil
	})
	if err != nil {
		// commit failures come back unclassified
		saleErr := classify(err, 0)
		if errors.Is(saleErr, ErrOutOfStock) {
			s.metrics.StockRejections.WithLabelValues(strconv.FormatUint(uint64(saleErr.VariationID), 10)).Inc()
		}
		s.finish(log, SaleRolledBack, started, saleErr)
		return uuid.Nil, saleErr
	}

	s.finish(log.With(zap.String("transaction_id", txID.String())), SaleCommitted, started, nil)
	units := 0
	for _, l := range ordered {
		units += l.Quantity
	}
	s.metrics.UnitsSold.Add(float64(units))

	stockLevels := make(map[string]int, len(levels))
	for id, level := range levels {
		stockLevels[strconv.FormatUint(uint64(id), 10)] = level
	}
	s.notifier.Publish(SaleCommittedEvent{
		Type:          "stock_update",
		Action:        "sale_committed",
		TransactionID: txID,
		StoreID:       storeID,
		CashierID:     cashierID,
		Total:         total,
		StockLevels:   stockLevels,
		Message:       fmt.Sprintf("cashier %d sold %d units at store %d", cashierID, units, storeID),
	})

	return txID, nil
}

func (s *saleService) finish(log *zap.Logger, state SaleState, started time.Time, err error) {
	elapsed := time.Since(started)
	outcome := metrics.OutcomeCommitted
	switch state {
	case SaleRejected:
		outcome = metrics.OutcomeRejected
	case SaleRolledBack:
		outcome = metrics.OutcomeRolledBack
	}

	reason := "none"
	var saleErr *SaleError
	if errors.As(err, &saleErr) {
		reason = saleErr.Kind.Error()
	}
	s.metrics.Sales.WithLabelValues(outcome, reason).Inc()
	s.metrics.DurationMS.WithLabelValues(outcome).Observe(float64(elapsed.Microseconds()) / 1000)

	fields := []zap.Field{
		zap.String("state", string(state)),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
	}
	switch state {
	case SaleCommitted:
		log.Info("sale committed", fields...)
	case SaleRejected:
		log.Info("sale rejected", append(fields, zap.Error(err))...)
	default:
		log.Warn("sale rolled back", append(fields, zap.Error(err))...)
	}
}

func (s *saleService) GetTransaction(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	return s.txRepo.FindByID(ctx, id)
}

func (s *saleService) ListTransactions(ctx context.Context, storeID uint, limit int) ([]model.Transaction, error) {
	return s.txRepo.FindByStore(ctx, storeID, limit)
}

// validateCart rejects an empty cart, then any non-positive quantity, then
// any negative price, then a total that does not fit in int64.
func validateCart(lines []model.CartLine) error {
	if len(lines) == 0 {
		return &SaleError{Kind: ErrEmptyCart, Line: -1}
	}

	var priceErr *SaleError
	for i := range lines {
		for _, fe := range validator.ValidateStruct(&lines[i]) {
			switch fe.Field {
			case "Quantity":
				return &SaleError{Kind: ErrInvalidQuantity, VariationID: lines[i].VariationID, Line: i, Err: fe}
			case "PricePerUnit":
				if priceErr == nil {
					priceErr = &SaleError{Kind: ErrInvalidPrice, VariationID: lines[i].VariationID, Line: i, Err: fe}
				}
			}
		}
	}
	if priceErr != nil {
		return priceErr
	}

	var (
		total int64
		ok    bool
	)
	for i, l := range lines {
		if total, ok = model.AddSubtotal(total, l.Quantity, l.PricePerUnit); !ok {
			return &SaleError{Kind: ErrInvalidPrice, VariationID: l.VariationID, Line: i, Err: model.ErrAmountOverflow}
		}
	}
	return nil
}

// sortedLines returns a copy of lines ordered by variation id. Lines for the
// same variation keep their cart order.
func sortedLines(lines []model.CartLine) []model.CartLine {
	ordered := make([]model.CartLine, len(lines))
	copy(ordered, lines)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].VariationID < ordered[j].VariationID
	})
	return ordered
}
