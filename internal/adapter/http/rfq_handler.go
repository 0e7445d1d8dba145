package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	mw "sourcing-workflow/internal/adapter/middleware"
	rfquc "sourcing-workflow/internal/usecase/rfq"
)

type RfqHandler struct{ uc *rfquc.Usecase }

func NewRfqHandler(uc *rfquc.Usecase) *RfqHandler { return &RfqHandler{uc: uc} }

type lineItemReq struct {
	ItemName           string           `json:"item_name"            validate:"required,max=255"`
	Specifications     string           `json:"specifications"`
	Quantity           decimal.Decimal  `json:"quantity"             validate:"qty"`
	Unit               string           `json:"unit"                 validate:"max=32"`
	EstimatedUnitPrice *decimal.Decimal `json:"estimated_unit_price" validate:"omitempty,money"`
	Notes              string           `json:"notes"`
}

type createRfqReq struct {
	Title                string           `json:"title"                 validate:"required,max=255"`
	Description          string           `json:"description"`
	Currency             string           `json:"currency"              validate:"omitempty,currency"`
	BudgetAmount         *decimal.Decimal `json:"budget_amount"         validate:"omitempty,money"`
	ValidUntil           *time.Time       `json:"valid_until"`
	RequestingDepartment string           `json:"requesting_department" validate:"max=128"`
	LineItems            []lineItemReq    `json:"line_items"            validate:"dive"`
}

func (h *RfqHandler) Create(c echo.Context) error {
	var req createRfqReq
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	in := rfquc.CreateInput{
		Title:                req.Title,
		Description:          req.Description,
		Currency:             req.Currency,
		BudgetAmount:         req.BudgetAmount,
		ValidUntil:           req.ValidUntil,
		RequestingDepartment: req.RequestingDepartment,
	}
	for _, li := range req.LineItems {
		in.LineItems = append(in.LineItems, rfquc.LineItemInput(li))
	}
	out, err := h.uc.Create(c.Request().Context(), mw.ActorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

type listRfqReq struct {
	Status  string `query:"status"`
	Keyword string `query:"keyword"`
	Page    int    `query:"page"    validate:"gte=0"`
	Limit   int    `query:"limit"   validate:"gte=0,lte=100"`
}

func (h *RfqHandler) List(c echo.Context) error {
	var req listRfqReq
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.Request().Context(), mw.ActorFrom(c), rfquc.ListInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RfqHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Details(c.Request().Context(), mw.ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type updateRfqReq struct {
	Title        *string          `json:"title"         validate:"omitempty,max=255"`
	Description  *string          `json:"description"`
	Currency     *string          `json:"currency"      validate:"omitempty,currency"`
	BudgetAmount *decimal.Decimal `json:"budget_amount" validate:"omitempty,money"`
	ValidUntil   *time.Time       `json:"valid_until"`
}

func (h *RfqHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req updateRfqReq
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.Request().Context(), mw.ActorFrom(c), id, rfquc.UpdateInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RfqHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.Request().Context(), mw.ActorFrom(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RfqHandler) Publish(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Publish(c.Request().Context(), mw.ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RfqHandler) Close(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Close(c.Request().Context(), mw.ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type reasonReq struct {
	Reason string `json:"reason" validate:"max=255"`
}

func (h *RfqHandler) Cancel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req reasonReq
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Cancel(c.Request().Context(), mw.ActorFrom(c), id, req.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type invitationsReq struct {
	SupplierIDs []uint64 `json:"supplier_ids" validate:"min=1,dive,gte=1"`
}

func (h *RfqHandler) SendInvitations(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req invitationsReq
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.SendInvitations(c.Request().Context(), mw.ActorFrom(c), id, req.SupplierIDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

type reviewReq struct {
	SelectedQuoteID uint64          `json:"selected_quote_id" validate:"required"`
	ReviewScores    json.RawMessage `json:"review_scores"     validate:"required"`
	Comments        string          `json:"comments"`
}

func (h *RfqHandler) Review(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req reviewReq
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Review(c.Request().Context(), mw.ActorFrom(c), id, rfquc.ReviewInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RfqHandler) PriceAudit(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.PriceReport(c.Request().Context(), mw.ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type prExportReq struct {
	LineItemIDs []uint64 `json:"line_item_ids" validate:"min=1,dive,gte=1"`
}

func (h *RfqHandler) PrExport(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req prExportReq
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	if err := h.uc.MarkPrExported(c.Request().Context(), mw.ActorFrom(c), id, req.LineItemIDs); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RfqHandler) SupplierView(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.SupplierView(c.Request().Context(), mw.ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// SupplierInvitations takes ?status= and ?open=true.
func (h *RfqHandler) SupplierInvitations(c echo.Context) error {
	onlyOpen := strings.EqualFold(c.QueryParam("open"), "true")
	out, err := h.uc.SupplierInvitations(c.Request().Context(), mw.ActorFrom(c),
		strings.TrimSpace(c.QueryParam("status")), onlyOpen)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
