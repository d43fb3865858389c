//go:build !swag

package swaggerkit

// docReader (no-swag build) returns a skeleton so the UI can still load. Build
// with -tags swag to serve the document swag init generates from the handlers
var docReader = func() string {
	return `{"openapi":"3.0.3","info":{"title":"jmnedict API","version":"0.0.0"},"paths":{}}`
}
