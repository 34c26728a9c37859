package utils

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/mindgames-dev/mindgames/internal/api"
	"github.com/mindgames-dev/mindgames/internal/errors"
	"github.com/mindgames-dev/mindgames/internal/logger"
)

const InternalErrorMessage = "Internal server error"

var validate = newValidator()

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// WriteJSON writes data wrapped in the response envelope. The envelope status
// follows the http status: fail for 4xx, error for 5xx.
func WriteJSON(w http.ResponseWriter, statusCode int, data any, messages ...string) {
	status := api.StatusSuccess
	switch {
	case statusCode >= 500:
		status = api.StatusError
	case statusCode >= 400:
		status = api.StatusFail
	}
	if messages == nil {
		messages = []string{}
	}
	body, err := json.Marshal(api.Envelope{Status: status, Data: data, Messages: messages})
	if err != nil {
		logger.Log.Error("failed to encode response", "error", err)
		statusCode = http.StatusInternalServerError
		body = []byte(`{"status":"error","data":null,"messages":["` + InternalErrorMessage + `"]}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	w.Write(body)
}

// WriteErrorAndStatusCode writes err as an envelope. Errors without a status
// code are internal; their text never reaches the client.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	var e *errors.ErrorWithStatusCode
	if errors.As(err, &e) {
		WriteJSON(w, e.StatusCode, nil, e.Message)
		return
	}
	WriteJSON(w, http.StatusInternalServerError, nil, InternalErrorMessage)
}

// DecodeValidate decodes a JSON body into body and validates its struct tags.
func DecodeValidate(r io.ReadCloser, body any) error {
	if err := Decode(r, body); err != nil {
		return err
	}
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("request validation failed", "error", err)
		return errors.BadRequest(validationMessage(err))
	}
	return nil
}

var errBodyTooLarge = errors.TooLarge("Request body too large")

// readErrRecorder keeps the last read error, decoders may replace it with
// their own syntax error.
type readErrRecorder struct {
	r   io.Reader
	err error
}

func (rr *readErrRecorder) Read(p []byte) (int, error) {
	n, err := rr.r.Read(p)
	if err != nil && err != io.EOF {
		rr.err = err
	}
	return n, err
}

func Decode(r io.ReadCloser, body any) error {
	rec := &readErrRecorder{r: r}
	if err := json.NewDecoder(rec).Decode(body); err != nil {
		logger.Log.Debug("request decoding failed", "error", err)
		if isTooLarge(err) || isTooLarge(rec.err) {
			return errBodyTooLarge
		}
		return errors.BadRequest("Body is invalid json")
	}
	return nil
}

// isTooLarge reports a read cut off by http.MaxBytesReader.
func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Required fields missing"
	}
	fields := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		fields[i] = fe.Field()
	}
	return fmt.Sprintf("Invalid fields: %s", strings.Join(fields, ", "))
}

// GetIP extracts the client IP from RemoteAddr.
// Forwarded headers are not trusted.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without port
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}
	return ip, nil
}

// GetEmailFromBody reads the email field of a JSON body and restores the
// body for the handler.
func GetEmailFromBody(r *http.Request) (string, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		if isTooLarge(err) {
			return "", errBodyTooLarge
		}
		return "", errors.BadRequest("Failed to read request body")
	}
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	var data struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return "", errors.BadRequest("Body is invalid json")
	}
	if data.Email == "" {
		return "", errors.BadRequest("Invalid fields: email")
	}
	return strings.ToLower(data.Email), nil
}
