package http

import (
	stdhttp "net/http"

	"jmnedict/internal/platform/net/http/bind"
)

// QueryHandler adapts a handler whose input is bound from the URL query into T
// and validated. Binding failures answer 400 naming the offending parameter
func QueryHandler[T any](fn func(*stdhttp.Request, T) (any, error)) Handler {
	return Call(func(r *stdhttp.Request) (any, error) {
		in, err := bind.Query[T](r)
		if err != nil {
			return nil, err
		}
		return fn(r, in)
	})
}
