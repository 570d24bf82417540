package server

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPIDocument []byte

const (
	docsPath    = "/api-docs"
	swaggerPath = docsPath + "/swagger.json"
)

// swaggerUIPage loads Swagger UI from a CDN and points it at swaggerPath.
const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Storefront API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
  <script>
    window.onload = () => {
      window.ui = SwaggerUIBundle({ url: '` + swaggerPath + `', dom_id: '#swagger-ui' });
    };
  </script>
</body>
</html>
`

// swaggerJSON converts the embedded YAML document once.
var swaggerJSON = sync.OnceValues(func() ([]byte, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(openAPIDocument, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse openapi document: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode openapi document: %w", err)
	}
	return out, nil
})

func serveDocsUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(swaggerUIPage))
}

func (h *handlers) serveSwaggerJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := swaggerJSON()
	if err != nil {
		h.logger.Error("api document unavailable", err, nil)
		Error(w, http.StatusInternalServerError, "API document unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
