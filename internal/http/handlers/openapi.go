package handlers

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"
	"net/http"
)

//go:embed openapi.json
var openAPISpec []byte

const openAPIPath = "/v1/openapi.json"

var docsTemplate = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
  <head>
    <meta charset="utf-8" />
    <title>{{.Title}} {{.Version}}</title>
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <style>
      body { margin: 0; padding: 0; }
      redoc { display: block; height: 100vh; }
    </style>
  </head>
  <body>
    <noscript>
      <p>{{.Description}}</p>
      <p><a href="{{.SpecURL}}">{{.SpecURL}}</a></p>
    </noscript>
    <redoc spec-url="{{.SpecURL}}" hide-download-button></redoc>
    <script src="https://cdn.jsdelivr.net/npm/redoc@2.2.0/bundles/redoc.standalone.js"></script>
  </body>
</html>`))

type docsPage struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description"`
	SpecURL     string `json:"-"`
}

// docsHTML renders the Redoc page once from the info block of the embedded
// OpenAPI document.
var docsHTML = func() []byte {
	var doc struct {
		Info docsPage `json:"info"`
	}
	if err := json.Unmarshal(openAPISpec, &doc); err != nil {
		panic("handlers: embedded openapi.json: " + err.Error())
	}
	doc.Info.SpecURL = openAPIPath
	var buf bytes.Buffer
	if err := docsTemplate.Execute(&buf, doc.Info); err != nil {
		panic("handlers: render docs: " + err.Error())
	}
	return buf.Bytes()
}()

func (a *App) OpenAPIJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPISpec)
}

func (a *App) OpenAPIDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(docsHTML)
}
