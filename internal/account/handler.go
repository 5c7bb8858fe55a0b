package account

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/tychan/site-api/internal/account/entity"
	"github.com/tychan/site-api/pkg/envelope"
)

const (
	msgAccountUnavailable = "There is a problem in accessing this account. Either it is not exist or it is disabled."
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidPayload     = "Invalid request body."
	msgMissingAccountName = "Missing account name."
	msgMissingPassword    = "Missing password."
	msgPasswordTooLong    = "Password must be at most 72 bytes."
	msgAccountNotExist    = "Account does not exist."
	msgSavePasswordFailed = "Failed to save new password."
)

// Handler exposes HTTP endpoints for the login and password flows.
type Handler struct {
	svc    *AccountService
	logger *zap.SugaredLogger
}

func NewHandler(svc *AccountService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// CredentialsRequest is the body of every account endpoint; each reads the
// fields it needs.
type CredentialsRequest struct {
	AccountName string `json:"account_name"`
	Password    string `json:"password"`
}

// CheckUserResponse keeps the user at the top level, next to success.
type CheckUserResponse struct {
	Success bool                `json:"success"`
	User    *entity.UserSummary `json:"user"`
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (CredentialsRequest, bool) {
	var req CredentialsRequest
	if err := envelope.DecodeJSON(r, &req); err != nil {
		h.logger.Debugw("invalid account payload", "path", r.URL.Path, "err", err)
		envelope.Fail(w, http.StatusBadRequest, msgInvalidPayload)
		return req, false
	}
	return req, true
}

func (h *Handler) CheckUser(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	user, err := h.svc.CheckUserExists(r.Context(), req.AccountName)
	if err != nil {
		if errors.Is(err, ErrAccountUnavailable) {
			envelope.Fail(w, http.StatusUnauthorized, msgAccountUnavailable)
			return
		}
		h.logger.Errorw("check user failed", "err", err)
		envelope.Internal(w)
		return
	}
	envelope.WriteJSON(w, http.StatusOK, CheckUserResponse{Success: true, User: user})
}

func (h *Handler) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	view, err := h.svc.VerifyPassword(r.Context(), req.AccountName, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.logger.Debugw("login failed", "account", req.AccountName)
			envelope.Fail(w, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}
		h.logger.Errorw("verify password failed", "err", err)
		envelope.Internal(w)
		return
	}
	envelope.OK(w, view)
}

// GeneratePassword answers with the hash in the message field.
func (h *Handler) GeneratePassword(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	hash, err := h.svc.GeneratePasswordHash(req.Password)
	if err != nil {
		if errors.Is(err, ErrMissingPassword) {
			envelope.Fail(w, http.StatusBadRequest, msgMissingPassword)
			return
		}
		if errors.Is(err, ErrPasswordTooLong) {
			envelope.Fail(w, http.StatusBadRequest, msgPasswordTooLong)
			return
		}
		h.logger.Errorw("hash password failed", "err", err)
		envelope.Internal(w)
		return
	}
	envelope.WriteJSON(w, http.StatusOK, envelope.Body{Success: true, Message: hash})
}

func (h *Handler) SetPassword(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	err := h.svc.SetPassword(r.Context(), req.AccountName, req.Password)
	switch {
	case err == nil:
		envelope.WriteJSON(w, http.StatusOK, envelope.Body{Success: true})
	case errors.Is(err, ErrMissingAccountName):
		envelope.Fail(w, http.StatusBadRequest, msgMissingAccountName)
	case errors.Is(err, ErrMissingPassword):
		envelope.Fail(w, http.StatusBadRequest, msgMissingPassword)
	case errors.Is(err, ErrPasswordTooLong):
		envelope.Fail(w, http.StatusBadRequest, msgPasswordTooLong)
	case errors.Is(err, ErrAccountUnavailable):
		envelope.Fail(w, http.StatusBadRequest, msgAccountNotExist)
	default:
		h.logger.Errorw("set password failed", "account", req.AccountName, "err", err)
		envelope.Fail(w, http.StatusInternalServerError, msgSavePasswordFailed)
	}
}
