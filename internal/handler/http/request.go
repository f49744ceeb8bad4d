package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst. On failure it writes a 400 and
// returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// optionalQuery returns nil for a missing or empty query parameter.
func optionalQuery(r *http.Request, key string) *string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

// intQuery parses a required integer query parameter, collecting failures in errs.
func intQuery(r *http.Request, key string, errs *validator.ValidationErrors) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		errs.Add(key, "is required")
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		errs.Add(key, "must be an integer")
		return 0
	}
	return v
}

func listMeta(n int) *response.Meta {
	return &response.Meta{TotalItems: int64(n)}
}
