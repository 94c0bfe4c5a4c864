package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	restTypes "github.com/robalyx/squadpledge/internal/rest/types"
	"github.com/robalyx/squadpledge/internal/service"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

var errMalformedBody = errors.New("malformed request body")

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	switch service.KindOf(err) {
	case service.KindAccessDenied:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindInvalidState, service.KindConflict:
		return http.StatusConflict
	case service.KindBudgetExceeded:
		return http.StatusUnprocessableEntity
	case service.KindValidationError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := sonic.ConfigStd.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	return nil
}

// writeError reports err to the client. Unclassified errors are logged and hidden.
func writeError(w http.ResponseWriter, logger *zap.Logger, req bunrouter.Request, err error) error {
	status := StatusFor(err)
	body := restTypes.ErrorResponse{
		Kind:    string(service.KindOf(err)),
		Message: err.Error(),
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("method", req.Method),
			zap.String("route", req.Route()),
			zap.Error(err))

		body = restTypes.ErrorResponse{Kind: "Internal", Message: "Internal server error"}
	}

	return writeJSON(w, status, body)
}

// decode reads the JSON request body into v.
func decode(w http.ResponseWriter, req bunrouter.Request, v any) error {
	body := http.MaxBytesReader(w, req.Body, maxBodyBytes)

	if err := sonic.ConfigStd.NewDecoder(body).Decode(v); err != nil {
		return &service.Error{
			Kind:    service.KindValidationError,
			Message: fmt.Sprintf("%v: %v", errMalformedBody, err),
			Err:     errMalformedBody,
		}
	}

	return nil
}

// paramID parses a numeric route parameter.
func paramID(req bunrouter.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(req.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &service.Error{
			Kind:    service.KindValidationError,
			Message: fmt.Sprintf("invalid %s %q", name, req.Param(name)),
		}
	}

	return id, nil
}

// emptyIfNil keeps list responses as JSON arrays.
func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
