package httpapi

import (
	_ "embed"
	"net/http"
)

//go:embed openapi.yaml
var openAPISpec []byte

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/yaml")
	if _, err := w.Write(openAPISpec); err != nil {
		s.logger.Error("Failed to write OpenAPI spec", "err", err)
	}
}
