package model

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// Transaction is the header of one completed sale. Total is fixed at
// creation and equals the sum of its detail subtotals.
type Transaction struct {
	BaseModel
	ReceiptNo string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"receipt_no"`
	StoreID   uint      `gorm:"not null;index" json:"store_id"`
	Store     *Store    `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	CashierID uint      `gorm:"not null;index" json:"cashier_id"`
	Timestamp time.Time `gorm:"column:sold_at;not null;index" json:"timestamp"`
	Total     int64     `gorm:"not null;check:chk_transaction_total,total >= 0" json:"total"`

	// Relasi
	Details []TransactionDetail `gorm:"foreignKey:TransactionID" json:"details,omitempty"`
}

// TransactionDetail is one line item. PricePerUnit is a snapshot taken at
// sale time and is never re-read from the catalog.
type TransactionDetail struct {
	BaseModel
	TransactionID uuid.UUID         `gorm:"type:uuid;not null;index" json:"transaction_id"`
	VariationID   uint              `gorm:"not null;index" json:"variation_id"`
	Variation     *ProductVariation `gorm:"foreignKey:VariationID" json:"variation,omitempty"`
	Quantity      int               `gorm:"not null;check:chk_detail_quantity,quantity > 0" json:"quantity"`
	PricePerUnit  int64             `gorm:"not null;check:chk_detail_price,price_per_unit >= 0" json:"price_per_unit"`
}

func (d *TransactionDetail) Subtotal() int64 {
	return int64(d.Quantity) * d.PricePerUnit
}

// CartLine is one item of an in-progress sale. It only lives for the
// duration of a single checkout call.
type CartLine struct {
	VariationID  uint  `json:"variation_id"`
	Quantity     int   `json:"quantity" validate:"gt=0"`
	PricePerUnit int64 `json:"price_per_unit" validate:"gte=0"`
}

// ErrAmountOverflow is returned when a money amount does not fit in int64.
var ErrAmountOverflow = errors.New("amount exceeds representable range")

// AddSubtotal returns total + quantity*price. ok is false when the result
// would overflow. All inputs must be non-negative.
func AddSubtotal(total int64, quantity int, price int64) (sum int64, ok bool) {
	if quantity == 0 || price == 0 {
		return total, true
	}
	if price > math.MaxInt64/int64(quantity) {
		return 0, false
	}
	sub := int64(quantity) * price
	if total > math.MaxInt64-sub {
		return 0, false
	}
	return total + sub, true
}

// CartTotal sums quantity * price over the given lines. It returns
// ErrAmountOverflow instead of a wrapped value.
func CartTotal(lines []CartLine) (int64, error) {
	var (
		total int64
		ok    bool
	)
	for _, l := range lines {
		if total, ok = AddSubtotal(total, l.Quantity, l.PricePerUnit); !ok {
			return 0, ErrAmountOverflow
		}
	}
	return total, nil
}
