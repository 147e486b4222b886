package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mithrel/marketeer/pkg/api"
)

var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.RequestID != "" {
		return fmt.Sprintf("analysis service: %d %s (request %s)", e.StatusCode, msg, e.RequestID)
	}
	return fmt.Sprintf("analysis service: %d %s", e.StatusCode, msg)
}

// decodeError understands the service's {"detail": ...} bodies, where detail
// is a string, an api.ErrorDetail, or a list of validation problems.
func decodeError(code int, body []byte) error {
	if code == http.StatusNotFound {
		return ErrNotFound
	}
	apiErr := &APIError{StatusCode: code}
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}
	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		apiErr.Message = s
		return apiErr
	}
	var d api.ErrorDetail
	if err := json.Unmarshal(env.Detail, &d); err == nil && d.Error != "" {
		apiErr.Message = d.Error
		apiErr.RequestID = d.RequestID
		return apiErr
	}
	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(env.Detail, &list); err == nil && len(list) > 0 {
		msgs := make([]string, 0, len(list))
		for _, it := range list {
			msgs = append(msgs, it.Msg)
		}
		apiErr.Message = strings.Join(msgs, "; ")
		return apiErr
	}
	apiErr.Message = string(env.Detail)
	return apiErr
}
