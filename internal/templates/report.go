// Package templates holds the templ components used for HTML output.
package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/csg33k/paycalc/internal/domain"
)

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"rowClass": rowClass,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
  body { font-family: 'IBM Plex Sans', Helvetica, sans-serif; color: #0d1117; background: #f5f0e8; margin: 2rem; }
  header { background: #1e1e1e; color: #fff; padding: .5rem 1rem; }
  h1 { font-size: 1.1rem; margin: 0; }
  .sub { font-style: italic; color: #6b5e4e; margin: .5rem 0 1rem; }
  table { width: 100%; border-collapse: collapse; margin-bottom: 1.25rem; font-family: 'IBM Plex Mono', monospace; font-size: .85rem; }
  th { background: #f0f0f0; text-align: left; text-transform: uppercase; font-size: .7rem; letter-spacing: .1em; padding: .35rem .5rem; border: 1px solid #b8a898; }
  td { border: 1px solid #b8a898; padding: .3rem .5rem; }
  td.v { text-align: right; }
  tr.even td { background: #fafafa; }
  tr.odd td { background: #fff; }
  tr.total td { background: #dcf0dc; font-weight: 600; }
  .notes { font-size: .75rem; color: #5a5a5a; }
  footer { font-size: .7rem; color: #828282; margin-top: 1rem; }
</style>
</head>
<body>
<header><h1>{{.Title}}</h1></header>
{{- if .Subtitle}}
<p class="sub">{{.Subtitle}}</p>
{{- end}}
{{- range .Sections}}
<table>
<thead><tr><th colspan="2">{{.Title}}</th></tr></thead>
<tbody>
{{- range $i, $row := .Rows}}
<tr class="{{rowClass $i $row.Emphasis}}"><td>{{$row.Label}}</td><td class="v">{{$row.Value}}</td></tr>
{{- end}}
</tbody>
</table>
{{- end}}
{{- if .Notes}}
<div class="notes">
{{- range .Notes}}
<p>{{.}}</p>
{{- end}}
</div>
{{- end}}
<footer>Generated {{.GeneratedAt.Format "Jan 2, 2006 15:04 MST"}}</footer>
</body>
</html>
`))

// Report renders a complete standalone HTML document for r.
func Report(r *domain.Report) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return reportTmpl.Execute(w, r)
	})
}
