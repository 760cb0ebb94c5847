package http

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Response wraps http.ResponseWriter with Laravel-style helpers. Action
// routes receive it under the "response" parameter.
type Response struct {
	w       http.ResponseWriter
	written bool
}

// NewResponse wraps a ResponseWriter.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// Raw returns the underlying ResponseWriter.
func (res *Response) Raw() http.ResponseWriter { return res.w }

// Written reports whether a status has been sent through this Response.
func (res *Response) Written() bool { return res.written }

// ── JSON responses ────────────────────────────────────────────────────────────

// JSON sends a JSON response.
//
//	res.JSON(http.StatusOK, map[string]any{"message": "ok"})
func (res *Response) JSON(status int, data any) {
	res.w.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	_ = json.NewEncoder(res.w).Encode(data)
}

// WriteHeader sends status and marks the response as written.
func (res *Response) WriteHeader(status int) {
	res.written = true
	res.w.WriteHeader(status)
}

// Success sends 200 JSON: {"data": v}
func (res *Response) Success(v any) {
	res.JSON(http.StatusOK, envelope{"data": v})
}

// Created sends 201 JSON: {"data": v}
func (res *Response) Created(v any) {
	res.JSON(http.StatusCreated, envelope{"data": v})
}

// NoContent sends 204 with no body.
func (res *Response) NoContent() {
	res.WriteHeader(http.StatusNoContent)
}

// Error sends a JSON error response.
//
//	res.Error(http.StatusNotFound, "Resource not found")
func (res *Response) Error(status int, message string) {
	res.JSON(status, envelope{"message": message})
}

// Unauthorized sends 401.
func (res *Response) Unauthorized(message ...string) {
	res.Error(http.StatusUnauthorized, first(message, "Unauthenticated."))
}

// Forbidden sends 403.
func (res *Response) Forbidden(message ...string) {
	res.Error(http.StatusForbidden, first(message, "This action is unauthorized."))
}

// NotFound sends 404.
func (res *Response) NotFound(message ...string) {
	res.Error(http.StatusNotFound, first(message, "Not found."))
}

// ServerError sends 500.
func (res *Response) ServerError(message ...string) {
	res.Error(http.StatusInternalServerError, first(message, "Server Error."))
}

// Fail maps an action error to a JSON error response. An *Error anywhere in
// the chain picks the status and message; anything else is a 500 whose
// message is only exposed when debug is set.
func (res *Response) Fail(err error, debug bool) {
	var herr *Error
	switch {
	case errors.As(err, &herr):
		res.Error(herr.Status, herr.Message)
	case debug:
		res.ServerError(err.Error())
	default:
		res.ServerError()
	}
}

// ── Redirects ────────────────────────────────────────────────────────────────

// RedirectTo performs a 302 redirect.
func (res *Response) RedirectTo(url string) {
	res.w.Header().Set("Location", url)
	res.WriteHeader(http.StatusFound)
}

// RedirectBack redirects to the Referer header (or fallback URL).
func (res *Response) RedirectBack(r *http.Request, fallback string) {
	ref := r.Referer()
	if ref == "" {
		ref = fallback
	}
	res.RedirectTo(ref)
}

// ── Errors ───────────────────────────────────────────────────────────────────

// Error is returned by actions to choose the status and public message.
//
//	return nil, gohttp.Abort(http.StatusNotFound, "user not found")
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// Abort builds an *Error.
func Abort(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type envelope map[string]any

func first(ss []string, fallback string) string {
	if len(ss) > 0 && ss[0] != "" {
		return ss[0]
	}
	return fallback
}
