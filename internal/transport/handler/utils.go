package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trunov/imgconvert/internal/converter"
	"github.com/trunov/imgconvert/internal/entities"
)

type APIError struct {
	Error string `json:"error"`
}

func writeMultipartError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge), strings.Contains(strings.ToLower(err.Error()), "too large"):
		writeJSONError(w, MsgTooLarge, http.StatusRequestEntityTooLarge)
	default:
		// not multipart, or a broken body: the file cannot be present
		writeJSONError(w, MsgInvalidRequest, http.StatusBadRequest)
	}
}

// writeError maps a conversion error onto its status code and message.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entities.ErrInvalidRequest):
		writeJSONError(w, MsgInvalidRequest, http.StatusBadRequest)
	case errors.Is(err, entities.ErrUnsupportedFormat):
		writeJSONError(w, MsgUnsupportedFormat, http.StatusBadRequest)
	default:
		writeJSONError(w, MsgConversionFailed, http.StatusInternalServerError)
	}
}

// parseQuality returns nil when s is absent or not an integer.
func parseQuality(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		// sliders may send "75.0"
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(f) {
			return nil
		}
		// out-of-range integers land here too; clamp before converting
		v = int(math.Max(0, math.Min(100, f)))
	}
	v = converter.Clamp(v)
	return &v
}

// validationError turns validator output into the request error taxonomy.
// A missing file or format wins over an unknown format.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return entities.ErrInvalidRequest
	}

	unsupported := false
	for _, e := range verrs {
		switch e.Tag() {
		case "oneof":
			unsupported = true
		default:
			return entities.ErrInvalidRequest
		}
	}
	if unsupported {
		return entities.ErrUnsupportedFormat
	}
	return entities.ErrInvalidRequest
}

func writeJSONError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, APIError{Error: message})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	_ = json.NewEncoder(w).Encode(v)
}
