package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/gorilla/mux"
	"gopkg.in/yaml.v3"
)

// OpenAPIHandler serves the API description as YAML and as JSON converted from it
type OpenAPIHandler struct {
	path string

	once     sync.Once
	yamlData []byte
	jsonData []byte
	loadErr  error
}

// NewOpenAPIHandler creates a handler for the YAML document at path. The file is read
// on first request and cached, so a missing document only fails its own routes.
func NewOpenAPIHandler(path string) *OpenAPIHandler {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		abs = path
	}
	return &OpenAPIHandler{path: abs}
}

// RegisterRoutes registers OpenAPI routes
func (h *OpenAPIHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/v1/openapi.yaml", h.ServeYAML).Methods("GET")
	r.HandleFunc("/api/v1/openapi.json", h.ServeJSON).Methods("GET")
}

func (h *OpenAPIHandler) load() {
	data, err := os.ReadFile(h.path)
	if err != nil {
		h.loadErr = fmt.Errorf("failed to read OpenAPI document: %w", err)
		return
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		h.loadErr = fmt.Errorf("failed to parse OpenAPI document: %w", err)
		return
	}
	converted, err := json.Marshal(doc)
	if err != nil {
		h.loadErr = fmt.Errorf("failed to convert OpenAPI document: %w", err)
		return
	}

	h.yamlData = data
	h.jsonData = converted
}

// ServeYAML serves the OpenAPI document as written
func (h *OpenAPIHandler) ServeYAML(w http.ResponseWriter, r *http.Request) {
	h.serve(w, "application/yaml", func() []byte { return h.yamlData })
}

// ServeJSON serves the OpenAPI document converted to JSON
func (h *OpenAPIHandler) ServeJSON(w http.ResponseWriter, r *http.Request) {
	h.serve(w, "application/json", func() []byte { return h.jsonData })
}

func (h *OpenAPIHandler) serve(w http.ResponseWriter, contentType string, body func() []byte) {
	h.once.Do(h.load)
	if h.loadErr != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "OpenAPI specification not found")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(body())
}
