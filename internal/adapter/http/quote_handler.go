package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	mw "sourcing-workflow/internal/adapter/middleware"
	quoteuc "sourcing-workflow/internal/usecase/quote"
)

type QuoteHandler struct{ uc *quoteuc.Usecase }

func NewQuoteHandler(uc *quoteuc.Usecase) *QuoteHandler { return &QuoteHandler{uc: uc} }

type quoteItemReq struct {
	LineNumber *int             `json:"line_number" validate:"omitempty,gte=1"`
	UnitPrice  *decimal.Decimal `json:"unit_price"  validate:"omitempty,money"`
	Quantity   *decimal.Decimal `json:"quantity"    validate:"omitempty,qty"`
	TotalPrice *decimal.Decimal `json:"total_price" validate:"omitempty,money"`
	Notes      string           `json:"notes"`
}

type submitQuoteReq struct {
	TotalPrice     *decimal.Decimal `json:"total_price"     validate:"required,money"`
	Currency       string           `json:"currency"        validate:"required,currency"`
	DeliveryPeriod string           `json:"delivery_period" validate:"required,max=64"`
	DeliveryTerms  string           `json:"delivery_terms"  validate:"max=255"`
	Notes          string           `json:"notes"`
	Items          []quoteItemReq   `json:"items"           validate:"dive"`
}

func (h *QuoteHandler) Submit(c echo.Context) error {
	rfqID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req submitQuoteReq
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	in := quoteuc.SubmitInput{
		TotalAmount:    req.TotalPrice,
		Currency:       req.Currency,
		DeliveryPeriod: req.DeliveryPeriod,
		DeliveryTerms:  req.DeliveryTerms,
		Notes:          req.Notes,
		IPAddress:      c.RealIP(),
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, quoteuc.ItemInput(it))
	}
	out, err := h.uc.Submit(c.Request().Context(), mw.ActorFrom(c), rfqID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

type updateQuoteReq struct {
	TotalPrice     *decimal.Decimal `json:"total_price"     validate:"omitempty,money"`
	Currency       *string          `json:"currency"        validate:"omitempty,currency"`
	DeliveryPeriod *string          `json:"delivery_period" validate:"omitempty,max=64"`
	DeliveryTerms  *string          `json:"delivery_terms"  validate:"omitempty,max=255"`
	Notes          *string          `json:"notes"`
}

func (h *QuoteHandler) Update(c echo.Context) error {
	rfqID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	quoteID, err := pathID(c, "quoteId")
	if err != nil {
		return writeError(c, err)
	}
	var req updateQuoteReq
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.Request().Context(), mw.ActorFrom(c), rfqID, quoteID, quoteuc.UpdateInput{
		TotalAmount:    req.TotalPrice,
		Currency:       req.Currency,
		DeliveryPeriod: req.DeliveryPeriod,
		DeliveryTerms:  req.DeliveryTerms,
		Notes:          req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *QuoteHandler) Withdraw(c echo.Context) error {
	rfqID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	quoteID, err := pathID(c, "quoteId")
	if err != nil {
		return writeError(c, err)
	}
	var req reasonReq
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Withdraw(c.Request().Context(), mw.ActorFrom(c), rfqID, quoteID, req.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *QuoteHandler) Compare(c echo.Context) error {
	rfqID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Compare(c.Request().Context(), mw.ActorFrom(c), rfqID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
