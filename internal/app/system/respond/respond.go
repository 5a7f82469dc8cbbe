// Package respond writes the uniform JSON envelope used by every API
// endpoint:
//
//	{ "success": bool, "data"?, "message"?, "errors"?, "pagination"?, "count"? }
//
// Error responses set success:false with a human-readable message; validation
// errors additionally include an errors array of field-level messages.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/communityserve/volunteerhub/internal/app/system/apperr"
	"go.uber.org/zap"
)

// Pagination is the page descriptor attached to list responses.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
}

// Envelope is the response body shape shared by all endpoints.
type Envelope struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Errors     []string    `json:"errors,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Count      *int        `json:"count,omitempty"`
	Token      string      `json:"token,omitempty"`
	User       any         `json:"user,omitempty"`
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// OK writes a 200 with data.
func OK(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 with data.
func Created(w http.ResponseWriter, data any) {
	write(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// Message writes a 200 with only a success message.
func Message(w http.ResponseWriter, message string) {
	write(w, http.StatusOK, Envelope{Success: true, Message: message})
}

// List writes a 200 with data plus a count of items.
func List(w http.ResponseWriter, data any, count int) {
	write(w, http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}

// Page writes a 200 with data plus the pagination descriptor.
func Page(w http.ResponseWriter, data any, p Pagination) {
	write(w, http.StatusOK, Envelope{Success: true, Data: data, Pagination: &p})
}

// Auth writes a token-bearing response for register/login/reset flows.
func Auth(w http.ResponseWriter, status int, token string, user any) {
	write(w, status, Envelope{Success: true, Token: token, User: user})
}

// Error maps err through the apperr taxonomy and writes the failure
// envelope. Unexpected errors are logged and reported as a generic server
// error so internals never leak.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	ae := apperr.As(err)
	if ae.Kind == apperr.Internal && log != nil {
		log.Error("request failed", zap.Error(err))
	}
	write(w, ae.Status(), Envelope{
		Success: false,
		Message: ae.Message,
		Errors:  ae.FieldErrors,
	})
}
