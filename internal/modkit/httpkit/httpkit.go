// Package httpkit re-exports the platform http helpers modules mount with, so
// module code never imports internal/platform/net/http directly
package httpkit

import (
	"net/http"
	"strings"

	phttp "jmnedict/internal/platform/net/http"
)

type (
	// Router is the platform router seam
	Router = phttp.Router

	// Response is a return-style handler result
	Response = phttp.Response

	// Page describes an offset window
	Page = phttp.Page
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// List returns a 200 response carrying a page block
func List(items any, p Page) Response { return phttp.List(items, p) }

// Param returns a path parameter of the matched route
func Param(r *http.Request, name string) string { return phttp.Param(r, name) }

// Get registers a handler that takes no input besides the request
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, phttp.Call(h))
}

// GetQuery registers a handler whose input is bound from the query string into T
func GetQuery[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Get(path, phttp.QueryHandler(h))
}

// MountAPI mounts a sub router under /api/{version} with mw applied, then calls mount
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/api/"+strings.Trim(version, "/"), func(api Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		mount(api)
	})
}

// MountAPIV1 is MountAPI for v1
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}
