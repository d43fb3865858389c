package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"jmnedict/internal/platform/config"
	perr "jmnedict/internal/platform/errors"
)

// serverURL is where every module is mounted
const serverURL = "/api/v1"

// SpecMutator lets modules tweak the parsed document before it is served
type SpecMutator func(map[string]any)

// mutators is the in process registry for spec mutators
var mutators []SpecMutator

// Register adds a spec mutator; call it from module init so it is wired automatically
func Register(m SpecMutator) {
	if m != nil {
		mutators = append(mutators, m)
	}
}

// serveDocJSON serves the document after the common patches and module mutators
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := render(docReader())
		if err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(raw)
	}
}

func render(raw string) ([]byte, error) {
	var spec map[string]any
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return nil, err
	}

	ensureServers(spec, serverURL)

	cfg := config.New().Prefix("CORE_API_")
	if v := cfg.MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
		if info, ok := spec["info"].(map[string]any); ok {
			if title, ok := info["title"].(string); ok {
				info["title"] = title + " " + v
			}
		}
	}

	ensureErrorResponseDefinition(spec)
	addDefaultResponse(spec, http.StatusInternalServerError, perr.ErrorCodePanic, "panic recovered")
	addDefaultResponse(spec, http.StatusBadRequest, perr.ErrorCodeValidation, "limit must be at most 500")

	for _, m := range mutators {
		m(spec)
	}
	return json.Marshal(spec)
}

// ensureServers makes the document OAS 3.0 with a servers array; the swagger UI
// bundled with http-swagger can't render 3.1
func ensureServers(spec map[string]any, url string) {
	if _, hasSwagger := spec["swagger"]; hasSwagger {
		spec["openapi"] = "3.0.3"
		delete(spec, "swagger")
	}
	if v, ok := spec["openapi"].(string); !ok || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": url}}
	}
}

// ensureErrorResponseDefinition adds the error envelope schema if missing. It
// mirrors phttp.Envelope
func ensureErrorResponseDefinition(spec map[string]any) {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	schemas, ok := comps["schemas"].(map[string]any)
	if !ok {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Standard error response",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"error":       map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status"},
	}
}

// addDefaultResponse injects an error response into every operation lacking one
func addDefaultResponse(spec map[string]any, sc int, code perr.ErrorCode, msg string) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	status, text := strconv.Itoa(sc), http.StatusText(sc)
	resp := map[string]any{
		"description": text,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": sc,
					"status":      text,
					"code":        int(code),
					"error":       msg,
					"request_id":  "579f33bf50b1/abc-000001",
				},
			},
		},
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses, ok := op["responses"].(map[string]any)
			if !ok {
				responses = map[string]any{}
				op["responses"] = responses
			}
			if _, exists := responses[status]; !exists {
				responses[status] = resp
			}
		}
	}
}
