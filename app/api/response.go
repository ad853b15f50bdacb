package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/storefront/inventory-api/app/inventory"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func OKResponse(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

func CreatedResponse(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, data)
}

func ErrorJSON(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// StatusFor maps an error returned by the inventory service to an HTTP status.
func StatusFor(err error) int {
	var de *inventory.Error
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}
	switch de.Kind {
	case inventory.KindValidation:
		return http.StatusBadRequest
	case inventory.KindNotFound:
		return http.StatusNotFound
	case inventory.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// DomainError writes err using StatusFor. Storage failures are logged and
// reported with fallback as the message so internals do not leak.
func DomainError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallback, zap.Error(err))
		ErrorJSON(w, status, fallback)
		return
	}

	var de *inventory.Error
	errors.As(err, &de)
	ErrorJSON(w, status, de.Message())
}

// PathID parses the {id} style path value as a positive integer.
func PathID(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
