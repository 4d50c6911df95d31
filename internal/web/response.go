package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"anime-vault-go/internal/api"
	"anime-vault-go/internal/onechain"
	"anime-vault-go/internal/store"
	"anime-vault-go/internal/tokenize"
	"anime-vault-go/internal/wallet"

	"go.uber.org/zap"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Digest  string   `json:"digest,omitempty"`
	Missing []string `json:"missing,omitempty"`
	Invalid []string `json:"invalid,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		zap.L().Warn("Failed to write response", zap.Error(err))
	}
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}

// writeError maps an action error to a status and a JSON message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{Error: err.Error()}
	status := http.StatusInternalServerError

	var validationErr *tokenize.ValidationError
	var mirrorErr *api.MirrorError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		resp.Missing = validationErr.Missing
		resp.Invalid = validationErr.Invalid
	case errors.As(err, &mirrorErr):
		resp.Digest = mirrorErr.Digest
	case errors.Is(err, store.ErrNFTNotFound):
		status = http.StatusNotFound
	case errors.Is(err, onechain.ErrInvalidPrice), errors.Is(err, onechain.ErrNoImage),
		errors.Is(err, api.ErrNotListed), errors.Is(err, api.ErrAlreadyListed):
		status = http.StatusBadRequest
	case errors.Is(err, api.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, wallet.ErrNotConnected):
		status = http.StatusUnauthorized
	case errors.Is(err, wallet.ErrWalletNotFound), errors.Is(err, onechain.ErrContractNotConfigured),
		errors.Is(err, api.ErrNoImageStorage):
		status = http.StatusServiceUnavailable
	case errors.Is(err, api.ErrOperationInFlight), errors.Is(err, wallet.ErrConnectionInProgress),
		errors.Is(err, wallet.ErrConnectionCancelled):
		status = http.StatusConflict
	case errors.Is(err, onechain.ErrExecutionFailed):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		zap.L().Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}
	writeJSON(w, status, resp)
}
