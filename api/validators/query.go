package validators

import (
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/jmoralesv/turnia-backend/pkg/errors"
)

// ParseQueryDate reads a YYYY-MM-DD query parameter. A missing value
// returns nil.
func ParseQueryDate(r *http.Request, key string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a date").WithDetails(map[string]any{"field": key, "format": "2006-01-02"})
	}
	return &value, nil
}
