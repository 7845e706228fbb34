package gen

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/*
var templatesFS embed.FS

const goDocTemplate = "docs.go.gotmpl"

type goDocData struct {
	PackageName   string
	GeneratedTime bool
	Timestamp     time.Time
	Names         []string
	Doc           string
}

// rawString quotes s as a Go raw string literal, splicing in backticks.
func rawString(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "`+\"`\"+`") + "`"
}

func renderGoDoc(data goDocData) ([]byte, error) {
	funcMap := template.FuncMap{
		"rawString": rawString,
	}
	for k, v := range sprig.TxtFuncMap() {
		funcMap[k] = v
	}

	content, err := templatesFS.ReadFile("templates/" + goDocTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", goDocTemplate, err)
	}

	tmpl, err := template.New(goDocTemplate).Funcs(funcMap).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", goDocTemplate, err)
	}

	if data.Timestamp.IsZero() {
		data.Timestamp = time.Now()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", goDocTemplate, err)
	}
	return buf.Bytes(), nil
}
