package billing

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/tychan/site-api/internal/billing/entity"
	"github.com/tychan/site-api/pkg/envelope"
)

const (
	msgInvalidPayload = "Invalid payload: Missing required fields or bill_items array is empty."
	msgItemName       = "Invalid payload: every bill item needs name_en."
	msgUnknownRef     = "Invalid payload: referenced user, currency, wallet or unit does not exist."
	msgCreateFailed   = "Failed to create bill. Please check the data and try again."
)

type Handler struct {
	svc    *BillingService
	logger *zap.SugaredLogger
}

func NewHandler(svc *BillingService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// SubmitBillResponse carries the new id next to success.
type SubmitBillResponse struct {
	Success bool  `json:"success"`
	BillID  int64 `json:"billId"`
}

func (h *Handler) SubmitNewBill(w http.ResponseWriter, r *http.Request) {
	var req entity.Bill
	if err := envelope.DecodeJSON(r, &req); err != nil {
		h.logger.Debugw("invalid bill payload", "err", err)
		envelope.Fail(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}
	id, err := h.svc.CreateBill(r.Context(), &req)
	switch {
	case err == nil:
		h.logger.Infow("bill created", "bill_id", id, "items", len(req.Items))
		envelope.WriteJSON(w, http.StatusOK, SubmitBillResponse{Success: true, BillID: id})
	case errors.Is(err, ErrMissingFields):
		envelope.Fail(w, http.StatusBadRequest, msgInvalidPayload)
	case errors.Is(err, ErrItemName):
		envelope.Fail(w, http.StatusBadRequest, msgItemName)
	case errors.Is(err, ErrUnknownReference):
		h.logger.Debugw("bill references missing row", "err", err)
		envelope.Fail(w, http.StatusBadRequest, msgUnknownRef)
	default:
		h.logger.Errorw("create bill failed", "err", err)
		envelope.Fail(w, http.StatusInternalServerError, msgCreateFailed)
	}
}

func (h *Handler) GetAllBills(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ListReferenceData(r.Context())
	if err != nil {
		h.lookupFailed(w, err)
		return
	}
	envelope.OK(w, data)
}

func (h *Handler) GetNewBillInitValue(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.InitValues(r.Context())
	if err != nil {
		h.lookupFailed(w, err)
		return
	}
	envelope.OK(w, data)
}

func (h *Handler) lookupFailed(w http.ResponseWriter, err error) {
	h.logger.Errorw("billing reference lookup failed", "err", err)
	var le *LookupError
	if errors.As(err, &le) {
		envelope.Fail(w, http.StatusInternalServerError, le.Message())
		return
	}
	envelope.Internal(w)
}
