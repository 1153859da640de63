package swaggerkit

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/swaggo/swag/v2"
	"gopkg.in/yaml.v3"
)

// InstanceName is the swag registry entry the API document is published under
const InstanceName = "tomotrip"

//go:embed openapi.yaml
var openapiYAML []byte

// SpecMutator lets a caller tweak the parsed document before it is served
type SpecMutator func(map[string]any)

func init() { swag.Register(InstanceName, embeddedDoc{}) }

// embeddedDoc publishes openapi.yaml to swag as JSON, with a default error
// response on every operation
type embeddedDoc struct{}

var renderDoc = sync.OnceValues(func() (string, error) {
	var spec map[string]any
	if err := yaml.Unmarshal(openapiYAML, &spec); err != nil {
		return "", err
	}
	addDefaultError(spec)
	b, err := json.Marshal(spec)
	return string(b), err
})

// ReadDoc implements swag.Swagger; a broken embed yields an empty object
func (embeddedDoc) ReadDoc() string {
	doc, err := renderDoc()
	if err != nil {
		return "{}"
	}
	return doc
}

// Document reads the registered document and applies the server base url and mutators
func Document(baseURL string, mutators ...SpecMutator) (map[string]any, error) {
	raw, err := swag.ReadDoc(InstanceName)
	if err != nil {
		return nil, err
	}
	var spec map[string]any
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return nil, err
	}
	ensureServers(spec, baseURL)
	for _, m := range mutators {
		if m != nil {
			m(spec)
		}
	}
	return spec, nil
}

// serveDocJSON renders the document on first request and serves the cached bytes
func serveDocJSON(baseURL string, mutators ...SpecMutator) http.HandlerFunc {
	render := sync.OnceValues(func() ([]byte, error) {
		spec, err := Document(baseURL, mutators...)
		if err != nil {
			return nil, err
		}
		return json.Marshal(spec)
	})
	return func(w http.ResponseWriter, _ *http.Request) {
		body, err := render()
		if err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}
}

func ensureServers(spec map[string]any, baseURL string) {
	if s, ok := spec["servers"].([]any); ok && len(s) > 0 {
		return
	}
	spec["servers"] = []any{map[string]any{"url": baseURL}}
}

var methods = []string{"get", "post", "put", "patch", "delete"}

// addDefaultError points every operation's default response at the error envelope
func addDefaultError(spec map[string]any) {
	paths, _ := spec["paths"].(map[string]any)
	for _, item := range paths {
		ops, _ := item.(map[string]any)
		for _, m := range methods {
			op, ok := ops[m].(map[string]any)
			if !ok {
				continue
			}
			resp, _ := op["responses"].(map[string]any)
			if resp == nil {
				resp = map[string]any{}
				op["responses"] = resp
			}
			if _, set := resp["default"]; !set {
				resp["default"] = map[string]any{"$ref": "#/components/responses/Error"}
			}
		}
	}
}
