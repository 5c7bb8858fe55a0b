package content

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/tychan/site-api/pkg/envelope"
)

const maxEntryBytes = 1 << 20

type Handler struct {
	svc    *ContentService
	logger *zap.SugaredLogger
}

func NewHandler(svc *ContentService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// AddEntryResponse is the body returned after a changelog insert.
type AddEntryResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

func (h *Handler) ListChangelog(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.ListChangelog(r.Context())
	if err != nil {
		h.fail(w, "list changelog failed", err)
		return
	}
	envelope.OK(w, page)
}

func (h *Handler) ListProjectPreviews(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.ListProjectPreviews(r.Context())
	if err != nil {
		h.fail(w, "list project previews failed", err)
		return
	}
	envelope.OK(w, page)
}

func (h *Handler) AddChangelogEntry(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEntryBytes))
	if err != nil {
		envelope.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	id, err := h.svc.AddChangelogEntry(r.Context(), body)
	switch {
	case err == nil:
		envelope.WriteJSON(w, http.StatusOK, AddEntryResponse{Success: true, Message: "Log added successfully", Data: id})
	case errors.Is(err, ErrInvalidEntry):
		envelope.Fail(w, http.StatusBadRequest, "Invalid request body.")
	case errors.Is(err, ErrInvalidDate):
		envelope.Fail(w, http.StatusBadRequest, "Invalid date format. Expected YYYY-MM-DD.")
	case errors.Is(err, ErrInvalidVersion):
		envelope.Fail(w, http.StatusBadRequest, "Version major, minor and patch must be numeric.")
	default:
		h.logger.Errorw("add changelog entry failed", "err", err)
		envelope.Internal(w)
	}
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		h.logger.Warnw(msg, "err", err)
		envelope.Fail(w, http.StatusNotFound, nf.Message)
		return
	}
	h.logger.Errorw(msg, "err", err)
	envelope.Internal(w)
}
