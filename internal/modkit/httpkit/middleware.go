package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"jmnedict/internal/platform/config"
	"jmnedict/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	CORSOrigins []string
	Timeout     time.Duration // default 30s
	SlowRequest time.Duration // default 1s
	MaxInFlight int           // 0 = unlimited
}

// StackFromConfig reads CORS_ORIGINS, REQUEST_TIMEOUT, SLOW_REQUEST and MAX_IN_FLIGHT
func StackFromConfig(cfg config.Conf) StackOptions {
	return StackOptions{
		CORSOrigins: cfg.MayCSV("CORS_ORIGINS", []string{"*"}),
		Timeout:     cfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		SlowRequest: cfg.MayDuration("SLOW_REQUEST", time.Second),
		MaxInFlight: cfg.MayInt("MAX_IN_FLIGHT", 0),
	}
}

// CommonStack is the per API middleware chain, outermost first
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.SlowRequest <= 0 {
		o.SlowRequest = time.Second
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLog(middleware.AccessLogOptions{Slow: o.SlowRequest}),
		middleware.RecoverJSON,
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.NoCache(),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Throttle(o.MaxInFlight),
		middleware.Timeout(o.Timeout),
	}
}
