// Package http is the transport layer of the read API: a chi backed router seam,
// the server and the JSON envelope every endpoint answers with
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "jmnedict/internal/platform/errors"
	pnet "jmnedict/internal/platform/net"
)

// Envelope is the body of every JSON response
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
	Page       *Page          `json:"page,omitempty"`
}

// Page describes an offset window over a lazily read sequence. More is true
// when the sequence continued past the window
type Page struct {
	Offset int  `json:"offset"`
	Limit  int  `json:"limit"`
	Count  int  `json:"count"`
	More   bool `json:"more"`
}

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is what return-style handlers produce
type Response struct {
	Status int
	Body   any
	Page   *Page
	Header stdhttp.Header
}

// OK returns a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// List returns a 200 response carrying a page block
func List(items any, p Page) Response {
	return Response{Status: stdhttp.StatusOK, Body: items, Page: &p}
}

// Error returns a response whose status and code come from err
func Error(err error) Response { return Response{Body: err} }

// Handle adapts a Response-returning function to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

// Call adapts a handler returning (value, error). A returned Response is written as is
func Call(fn func(*stdhttp.Request) (any, error)) stdhttp.HandlerFunc {
	return Handle(func(r *stdhttp.Request) Response {
		out, err := fn(r)
		if err != nil {
			return Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return OK(out)
	})
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	env := Envelope{RequestID: pnet.RequestID(r.Context())}

	if err, ok := resp.Body.(error); ok && err != nil {
		status := perr.HTTPStatus(err)
		wr := perr.WireFrom(err)
		env.StatusCode = status
		env.Status = stdhttp.StatusText(status)
		env.Code = wr.Code
		env.Error = wr.Message
		env.Field = wr.Field
		JSON(w, status, env)
		return
	}

	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	env.StatusCode = status
	env.Status = stdhttp.StatusText(status)
	env.Data = resp.Body
	env.Page = resp.Page
	JSON(w, status, env)
}

// RespondError writes err as an envelope, for classic handlers and middleware
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	Error(err).write(w, r)
}
