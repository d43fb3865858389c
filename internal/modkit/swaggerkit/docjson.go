//go:build swag

package swaggerkit

import (
	docs "jmnedict/internal/services/api/docs"
)

// docReader is a seam so tests can inject invalid JSON without patching swagger
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }
