package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mw "sourcing-workflow/internal/adapter/middleware"
	pouc "sourcing-workflow/internal/usecase/purchaseorder"
)

type PurchaseOrderHandler struct{ uc *pouc.Usecase }

func NewPurchaseOrderHandler(uc *pouc.Usecase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc}
}

type createPOReq struct {
	SupplierID  uint64   `json:"supplier_id"   validate:"required"`
	LineItemIDs []uint64 `json:"line_item_ids" validate:"min=1,dive,gte=1"`
	Description string   `json:"description"`
	Notes       string   `json:"notes"`
}

func (h *PurchaseOrderHandler) Create(c echo.Context) error {
	rfqID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req createPOReq
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Request().Context(), mw.ActorFrom(c), pouc.CreateInput{
		RfqID:       rfqID,
		SupplierID:  req.SupplierID,
		LineItemIDs: req.LineItemIDs,
		Description: req.Description,
		Notes:       req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *PurchaseOrderHandler) ListForRfq(c echo.Context) error {
	rfqID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListForRfq(c.Request().Context(), mw.ActorFrom(c), rfqID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PurchaseOrderHandler) Available(c echo.Context) error {
	rfqID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.AvailableBySupplier(c.Request().Context(), mw.ActorFrom(c), rfqID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PurchaseOrderHandler) Get(c echo.Context) error {
	poID, err := pathID(c, "poId")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Get(c.Request().Context(), mw.ActorFrom(c), poID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type updatePOReq struct {
	Description *string `json:"description"`
	Notes       *string `json:"notes"`
	PoFilePath  *string `json:"po_file_path" validate:"omitempty,max=512"`
	PoFileName  *string `json:"po_file_name" validate:"omitempty,max=255"`
	PoFileSize  *int64  `json:"po_file_size" validate:"omitempty,gte=0"`
}

func (h *PurchaseOrderHandler) Update(c echo.Context) error {
	poID, err := pathID(c, "poId")
	if err != nil {
		return writeError(c, err)
	}
	var req updatePOReq
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.Request().Context(), mw.ActorFrom(c), poID, pouc.UpdateInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PurchaseOrderHandler) Submit(c echo.Context) error {
	poID, err := pathID(c, "poId")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Submit(c.Request().Context(), mw.ActorFrom(c), poID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PurchaseOrderHandler) Confirm(c echo.Context) error {
	poID, err := pathID(c, "poId")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Confirm(c.Request().Context(), mw.ActorFrom(c), poID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PurchaseOrderHandler) Delete(c echo.Context) error {
	poID, err := pathID(c, "poId")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.Request().Context(), mw.ActorFrom(c), poID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
