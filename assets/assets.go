// Package assets bundles the web page, minified once at startup.
package assets

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
)

//go:embed index.html.tpl style.css script.js favicon.svg
var files embed.FS

// Bundle holds the ready-to-serve page and icon.
type Bundle struct {
	Index   []byte
	Favicon []byte
}

type pageData struct {
	CSS string
	JS  string
}

// Build minifies the stylesheet and script, inlines them into the page
// template and minifies the result.
func Build() (*Bundle, error) {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)

	cssMin, err := minifyFile(m, "text/css", "style.css")
	if err != nil {
		return nil, err
	}
	jsMin, err := minifyFile(m, "text/javascript", "script.js")
	if err != nil {
		return nil, err
	}
	svgMin, err := minifyFile(m, "image/svg+xml", "favicon.svg")
	if err != nil {
		return nil, err
	}

	tpl, err := template.ParseFS(files, "index.html.tpl")
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, pageData{CSS: cssMin, JS: jsMin}); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	page, err := m.Bytes("text/html", buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("minify page: %w", err)
	}

	return &Bundle{Index: page, Favicon: []byte(svgMin)}, nil
}

func minifyFile(m *minify.M, mime, name string) (string, error) {
	raw, err := files.ReadFile(name)
	if err != nil {
		return "", err
	}

	out, err := m.String(mime, string(raw))
	if err != nil {
		return "", fmt.Errorf("minify %s: %w", name, err)
	}
	return out, nil
}
