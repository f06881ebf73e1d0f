package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/aussiebroadwan/crew/pkg/errx"
	"github.com/aussiebroadwan/crew/pkg/slogx"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Error            string `json:"error"`
	Reason           string `json:"reason,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// WriteError maps err onto its status code and error body. Internal
// failures are logged and their text is never returned to the caller.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	kind := errx.KindOf(err)
	if kind == errx.Internal {
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
	}
	WriteJSON(w, kind.HTTPStatus(), ErrorResponse{
		Error:            string(kind),
		Reason:           errx.ReasonOf(err),
		ErrorDescription: errx.MessageOf(err),
	})
}

// DecodeJSON reads r's body into dst and runs struct validation on it.
// Failures come back as invalid-argument errors.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errx.New(errx.InvalidArgument, "request body is required")
		}
		return errx.Wrap(errx.InvalidArgument, "malformed request body", err)
	}
	return Validate(dst)
}

// Validate runs the `validate` struct tags on v.
func Validate(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return errx.Newf(errx.InvalidArgument, "field %q failed %q validation", fe.Field(), fe.Tag())
	}
	return errx.Wrap(errx.InvalidArgument, "invalid request", err)
}
