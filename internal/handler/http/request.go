package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"strconv"

	"github.com/storeline/products/pkg/validator"
)

const maxBodyBytes = 1 << 20

// parseID reads an integer path id. Anything else matches no row.
func parseID(raw string) (int64, bool) {
	if !validator.IsInt(raw) {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil
}

// decodeBody reads a JSON or urlencoded body into loosely typed fields. JSON
// numbers are kept as json.Number. An empty body yields no fields.
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return nil, bodyError(err)
		}
		fields := make(map[string]any, len(r.PostForm))
		for k := range r.PostForm {
			fields[k] = r.PostForm.Get(k)
		}
		return fields, nil
	}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, bodyError(err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func bodyError(err error) error {
	msg := "Invalid request body"
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		msg = "Request body too large"
	}
	return validator.New(validator.Violation{Msg: msg, Location: validator.LocationBody})
}

// stringField renders a loosely typed field the way a string-based validator
// sees it. Whole JSON numbers lose any fraction or exponent notation; absent
// and null fields are empty.
func stringField(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return strconv.FormatInt(n, 10)
		}
		if f, err := t.Float64(); err == nil && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return strconv.FormatInt(int64(f), 10)
		}
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
