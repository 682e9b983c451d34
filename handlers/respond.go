package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"trello-project/microservices/planner-service/apperrors"
	"trello-project/microservices/planner-service/logging"
	"trello-project/microservices/planner-service/middleware"
	"trello-project/microservices/planner-service/models"
	"trello-project/microservices/planner-service/services"
)

// ExposeInternalErrors puts the real message into 500 responses. Development only.
var ExposeInternalErrors bool

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Logger.Errorf("Event ID: RESPONSE_ENCODE_FAILED, Description: Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch apperrors.Kind(err) {
	case apperrors.ErrNotFound:
		status = http.StatusNotFound
	case apperrors.ErrInvalidArgument:
		status = http.StatusBadRequest
	case apperrors.ErrUnauthorized:
		status = http.StatusUnauthorized
	case apperrors.ErrForbidden:
		status = http.StatusForbidden
	case apperrors.ErrConflict:
		status = http.StatusConflict
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: %s %s failed: %v", r.Method, r.URL.Path, err)
		if !ExposeInternalErrors {
			message = "internal server error"
		}
	} else {
		logging.Logger.Warnf("Event ID: REQUEST_REJECTED, Description: %s %s rejected with %d: %v", r.Method, r.URL.Path, status, err)
	}
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.InvalidArgument("request body is required")
		}
		return apperrors.InvalidArgument("invalid request payload: %v", err)
	}
	return nil
}

func callerFrom(r *http.Request) (services.Caller, error) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return services.Caller{}, apperrors.Unauthorized("missing credentials")
	}
	return claims.Caller()
}

// checkRole rejects callers whose role is not in allowedRoles.
func checkRole(caller services.Caller, allowedRoles ...models.Role) error {
	for _, role := range allowedRoles {
		if caller.Role == role {
			return nil
		}
	}
	return apperrors.Forbidden("access forbidden: role %q does not have the required permissions", caller.Role)
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
