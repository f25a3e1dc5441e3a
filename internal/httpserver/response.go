package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coffeeshop-pos/internal/domain"
	historysvc "coffeeshop-pos/internal/service/history"
)

type errorResponse struct {
	Error string `json:"error"`
}

// money renders an amount as cents plus a display string, so register UIs
// never do float math on prices.
type money struct {
	Cents   int64  `json:"cents"`
	Display string `json:"display"`
}

func toMoney(cents int64) money {
	return money{Cents: cents, Display: domain.FormatCents(cents)}
}

type choiceResponse struct {
	Label      string `json:"label"`
	DeltaCents int64  `json:"deltaCents"`
}

type optionResponse struct {
	Name    string           `json:"name"`
	Choices []choiceResponse `json:"choices"`
}

type productResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Price       money            `json:"price"`
	Description string           `json:"description,omitempty"`
	Available   bool             `json:"available"`
	Options     []optionResponse `json:"options,omitempty"`
}

func toProductResponse(p domain.Product) productResponse {
	var options []optionResponse
	for _, opt := range p.Options {
		choices := make([]choiceResponse, 0, len(opt.Choices))
		for _, ch := range opt.Choices {
			choices = append(choices, choiceResponse{Label: ch.Label, DeltaCents: ch.PriceDeltaCents})
		}
		options = append(options, optionResponse{Name: opt.Name, Choices: choices})
	}
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    string(p.Category),
		Price:       toMoney(p.PriceCents),
		Description: p.Description,
		Available:   p.Available,
		Options:     options,
	}
}

type lineResponse struct {
	ProductID  string            `json:"productId"`
	Name       string            `json:"name"`
	Quantity   int               `json:"quantity"`
	UnitPrice  money             `json:"unitPrice"`
	Total      money             `json:"total"`
	Selections map[string]string `json:"selections,omitempty"`
}

func toLineResponses(lines []domain.LineItem) []lineResponse {
	out := make([]lineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, lineResponse{
			ProductID:  l.ProductID,
			Name:       l.ProductName,
			Quantity:   l.Quantity,
			UnitPrice:  toMoney(l.UnitPriceCents),
			Total:      toMoney(l.TotalCents()),
			Selections: l.Selections,
		})
	}
	return out
}

type orderResponse struct {
	Lines    []lineResponse `json:"lines"`
	Subtotal money          `json:"subtotal"`
	Tax      money          `json:"tax"`
	Total    money          `json:"total"`
	Status   string         `json:"status"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		Lines:    toLineResponses(o.Lines),
		Subtotal: toMoney(o.SubtotalCents),
		Tax:      toMoney(o.TaxCents),
		Total:    toMoney(o.TotalCents),
		Status:   string(o.Status),
	}
}

type snapshotResponse struct {
	ID            string         `json:"id"`
	Number        string         `json:"number"`
	Lines         []lineResponse `json:"lines"`
	Subtotal      money          `json:"subtotal"`
	Tax           money          `json:"tax"`
	Total         money          `json:"total"`
	Currency      string         `json:"currency"`
	PaymentMethod string         `json:"paymentMethod"`
	CashierName   string         `json:"cashierName,omitempty"`
	Status        string         `json:"status"`
	PlacedAt      time.Time      `json:"placedAt"`
}

func toSnapshotResponse(s *domain.OrderSnapshot) snapshotResponse {
	return snapshotResponse{
		ID:            s.ID,
		Number:        s.Number,
		Lines:         toLineResponses(s.Lines),
		Subtotal:      toMoney(s.SubtotalCents),
		Tax:           toMoney(s.TaxCents),
		Total:         toMoney(s.TotalCents),
		Currency:      s.Currency,
		PaymentMethod: string(s.PaymentMethod),
		CashierName:   s.CashierName,
		Status:        string(s.Status),
		PlacedAt:      s.PlacedAt,
	}
}

type summaryResponse struct {
	ID            string    `json:"id"`
	Number        string    `json:"number"`
	Total         money     `json:"total"`
	Currency      string    `json:"currency"`
	PaymentMethod string    `json:"paymentMethod"`
	CashierName   string    `json:"cashierName,omitempty"`
	PlacedAt      time.Time `json:"placedAt"`
}

func toSummaryResponse(s domain.OrderSummary) summaryResponse {
	return summaryResponse{
		ID:            s.ID,
		Number:        s.Number,
		Total:         toMoney(s.TotalCents),
		Currency:      s.Currency,
		PaymentMethod: string(s.PaymentMethod),
		CashierName:   s.CashierName,
		PlacedAt:      s.PlacedAt,
	}
}

type dailySalesResponse struct {
	Day        string `json:"day"`
	OrderCount int64  `json:"orderCount"`
	Gross      money  `json:"gross"`
	Tax        money  `json:"tax"`
	Average    money  `json:"average"`
}

func toDailySalesResponse(s *domain.SalesSummary) dailySalesResponse {
	return dailySalesResponse{
		Day:        s.Day,
		OrderCount: s.OrderCount,
		Gross:      toMoney(s.GrossCents),
		Tax:        toMoney(s.TaxCents),
		Average:    toMoney(s.AverageCents),
	}
}

// respondError maps service errors onto HTTP statuses in one place.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrInvalidProduct),
		errors.Is(err, domain.ErrInvalidCustomization),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrLineOutOfRange),
		errors.Is(err, domain.ErrInvalidPayment),
		errors.Is(err, domain.ErrInvalidCategory):
		status, msg = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrEmptyOrder),
		errors.Is(err, domain.ErrOrderFinalized):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrPersistence):
		status, msg = http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, historysvc.ErrBadQuery):
		status, msg = http.StatusBadRequest, err.Error()
	}

	c.JSON(status, errorResponse{Error: msg})
}
