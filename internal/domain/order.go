package domain

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// PaymentMethod records how a finalized order was paid.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentMobile PaymentMethod = "mobile"
)

// ParsePaymentMethod normalizes s into a PaymentMethod or returns
// ErrInvalidPayment.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cash":
		return PaymentCash, nil
	case "card":
		return PaymentCard, nil
	case "mobile":
		return PaymentMobile, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPayment, s)
}

// OrderStatus tracks the order lifecycle. The only transition is open to
// finalized; a finalized order never changes again.
type OrderStatus string

const (
	StatusOpen      OrderStatus = "open"
	StatusFinalized OrderStatus = "finalized"
)

// LineItem is one priced entry of an order. UnitPriceCents already includes
// the selection deltas resolved at add time.
type LineItem struct {
	ProductID      string            `json:"productId"`
	ProductName    string            `json:"productName"`
	Quantity       int               `json:"quantity"`
	UnitPriceCents int64             `json:"unitPriceCents"`
	Selections     map[string]string `json:"selections,omitempty"`
}

// TotalCents is the line's extended price.
func (l LineItem) TotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// SameItem reports whether an add for productID with the given selections
// refers to the same sellable thing as this line. Adds that match an
// existing line bump its quantity instead of appending a duplicate.
func (l LineItem) SameItem(productID string, selections map[string]string) bool {
	return l.ProductID == productID && maps.Equal(l.Selections, selections)
}

// Order is the live order a register is building. Totals are derived and
// recomputed by the register after every mutation.
type Order struct {
	Lines         []LineItem  `json:"lineItems"`
	SubtotalCents int64       `json:"subtotalCents"`
	TaxCents      int64       `json:"taxCents"`
	TotalCents    int64       `json:"totalCents"`
	Status        OrderStatus `json:"status"`
}

// OrderSnapshot is the immutable result of a checkout and the unit of
// persistence. Reads from the order repository return this same shape.
type OrderSnapshot struct {
	ID            string        `json:"id"`
	Number        string        `json:"number"`
	Lines         []LineItem    `json:"lineItems"`
	SubtotalCents int64         `json:"subtotalCents"`
	TaxCents      int64         `json:"taxCents"`
	TotalCents    int64         `json:"totalCents"`
	Currency      string        `json:"currency"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	CashierName   string        `json:"cashierName,omitempty"`
	Status        OrderStatus   `json:"status"`
	PlacedAt      time.Time     `json:"placedAt"`
}

// OrderSummary is the header-only projection used by history listings.
type OrderSummary struct {
	ID            string        `json:"id"`
	Number        string        `json:"number"`
	SubtotalCents int64         `json:"subtotalCents"`
	TaxCents      int64         `json:"taxCents"`
	TotalCents    int64         `json:"totalCents"`
	Currency      string        `json:"currency"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	CashierName   string        `json:"cashierName,omitempty"`
	Status        OrderStatus   `json:"status"`
	PlacedAt      time.Time     `json:"placedAt"`
}

// ListFilter narrows history listings. Zero values leave the corresponding
// bound open.
type ListFilter struct {
	From          time.Time
	To            time.Time
	PaymentMethod PaymentMethod
	Limit         int
}

// SalesSummary aggregates one day of committed orders.
type SalesSummary struct {
	Day          string `json:"day"`
	OrderCount   int64  `json:"orderCount"`
	GrossCents   int64  `json:"grossCents"`
	TaxCents     int64  `json:"taxCents"`
	AverageCents int64  `json:"averageCents"`
}
