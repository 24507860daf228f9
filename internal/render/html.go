package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/KaramelBytes/premiumlens/internal/figure"
	"github.com/KaramelBytes/premiumlens/internal/utils"
	"github.com/KaramelBytes/premiumlens/internal/views"
)

var figureTmpl = template.Must(template.New("figure").Parse(
	`<figure class="figure" id="fig-{{.ID}}">` +
		`{{if .Title}}<figcaption>{{.Title}}</figcaption>{{end}}` +
		`<div class="row">{{range .Panels}}<div class="panel">{{.}}</div>{{end}}</div>` +
		`</figure>`))

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
.row { display: flex; flex-wrap: nowrap; gap: 8px; overflow-x: auto; }
figcaption { font-weight: bold; margin: 0.5em 0; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Sections}}<h2>{{.Heading}}</h2>
{{.Figure}}
{{end}}</body>
</html>
`))

// Figure renders every panel of f and lays them out in one HTML row.
func Figure(f *figure.Figure, size Size) (template.HTML, error) {
	panels := make([]template.HTML, 0, len(f.Panels))
	for _, p := range f.Panels {
		var buf bytes.Buffer
		if err := Panel(&buf, p, size); err != nil {
			return "", err
		}
		// go-chart output is generated markup, not user input.
		panels = append(panels, template.HTML(buf.String()))
	}
	var out bytes.Buffer
	err := figureTmpl.Execute(&out, struct {
		ID     string
		Title  string
		Panels []template.HTML
	}{f.ID, f.Title, panels})
	if err != nil {
		return "", fmt.Errorf("figure template: %w", err)
	}
	return template.HTML(out.String()), nil
}

// Report writes a standalone HTML page with one heading and figure row per
// section.
func Report(w io.Writer, title string, sections []views.Section, size Size) error {
	type block struct {
		Heading string
		Figure  template.HTML
	}
	blocks := make([]block, 0, len(sections))
	for _, s := range sections {
		h, err := Figure(s.Figure, size)
		if err != nil {
			return fmt.Errorf("section %q: %w", s.Heading, err)
		}
		blocks = append(blocks, block{Heading: s.Heading, Figure: h})
	}
	return reportTmpl.Execute(w, struct {
		Title    string
		Sections []block
	}{title, blocks})
}

var unsafeName = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns a heading into a file-name fragment.
func Slug(s string) string {
	return strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// WriteSVGs writes each panel of every section to dir as
// <section>-<n>-<column>.svg and returns the paths written.
func WriteSVGs(dir string, sections []views.Section, size Size) ([]string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	var paths []string
	for _, s := range sections {
		for i, p := range s.Figure.Panels {
			var buf bytes.Buffer
			if err := Panel(&buf, p, size); err != nil {
				return paths, err
			}
			name := fmt.Sprintf("%s-%d-%s.svg", Slug(s.Heading), i+1, Slug(p.Column))
			path := filepath.Join(dir, name)
			if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}
