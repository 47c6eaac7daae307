package httpapi

import (
	"encoding/json"
	"net/http"
)

// Response renders itself to an http.ResponseWriter.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Envelope is the JSON body of every response.
type Envelope struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type jsonResponse struct {
	status int
	body   Envelope
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSON wraps v in the data field of the envelope.
func JSON(status int, v any) Response {
	return jsonResponse{status: status, body: Envelope{Data: v}}
}

// JSONError renders e with the standard status text as message.
func JSONError(e HTTPError, meta map[string]any) Response {
	return jsonResponse{
		status: e.Code,
		body: Envelope{
			Meta:  meta,
			Error: &ErrorDetail{Code: e.Key, Message: http.StatusText(e.Code)},
		},
	}
}

type emptyResponse struct{ status int }

func (e emptyResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(e.status)
	return nil
}

// NoContent renders 204 without a body.
func NoContent() Response { return emptyResponse{status: http.StatusNoContent} }
