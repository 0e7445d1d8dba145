package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mw "sourcing-workflow/internal/adapter/middleware"
	"sourcing-workflow/internal/domain/actor"
	lineitemuc "sourcing-workflow/internal/usecase/lineitem"
)

type LineItemHandler struct{ uc *lineitemuc.Usecase }

func NewLineItemHandler(uc *lineitemuc.Usecase) *LineItemHandler { return &LineItemHandler{uc: uc} }

func lineItemPath(c echo.Context) (rfqID, lineItemID uint64, err error) {
	if rfqID, err = pathID(c, "id"); err != nil {
		return 0, 0, err
	}
	lineItemID, err = pathID(c, "lineItemId")
	return rfqID, lineItemID, err
}

type submitLineItemReq struct {
	SelectedQuoteID uint64 `json:"selected_quote_id" validate:"required"`
}

func (h *LineItemHandler) Submit(c echo.Context) error {
	rfqID, lineItemID, err := lineItemPath(c)
	if err != nil {
		return writeError(c, err)
	}
	var req submitLineItemReq
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.SubmitForApproval(c.Request().Context(), mw.ActorFrom(c), lineitemuc.SubmitInput{
		RfqID: rfqID, LineItemID: lineItemID, SelectedQuoteID: req.SelectedQuoteID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type decisionReq struct {
	Decision   string  `json:"decision"     validate:"required,decision"`
	Comments   string  `json:"comments"`
	NewQuoteID *uint64 `json:"new_quote_id" validate:"omitempty,gte=1"`
}

func (h *LineItemHandler) DirectorDecision(c echo.Context) error {
	rfqID, lineItemID, err := lineItemPath(c)
	if err != nil {
		return writeError(c, err)
	}
	var req decisionReq
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.DirectorDecision(c.Request().Context(), mw.ActorFrom(c), lineitemuc.DecisionInput{
		RfqID:      rfqID,
		LineItemID: lineItemID,
		Decision:   req.Decision,
		Comments:   req.Comments,
		NewQuoteID: req.NewQuoteID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type invitePurchasersReq struct {
	PurchaserIDs []string `json:"purchaser_ids" validate:"min=1,dive,required,max=64"`
	Message      string   `json:"message"       validate:"max=1000"`
}

func (h *LineItemHandler) InvitePurchasers(c echo.Context) error {
	rfqID, lineItemID, err := lineItemPath(c)
	if err != nil {
		return writeError(c, err)
	}
	var req invitePurchasersReq
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.InvitePurchasers(c.Request().Context(), mw.ActorFrom(c), lineitemuc.InvitePurchasersInput{
		RfqID:        rfqID,
		LineItemID:   lineItemID,
		PurchaserIDs: req.PurchaserIDs,
		Message:      req.Message,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *LineItemHandler) ApprovalHistory(c echo.Context) error {
	rfqID, lineItemID, err := lineItemPath(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ApprovalHistory(c.Request().Context(), mw.ActorFrom(c), rfqID, lineItemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Pending defaults ?role= to the caller's own role.
func (h *LineItemHandler) Pending(c echo.Context) error {
	act := mw.ActorFrom(c)
	role := act.Role
	if r := c.QueryParam("role"); r != "" {
		role = actor.Role(r)
	}
	out, err := h.uc.PendingApprovals(c.Request().Context(), act, role)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
