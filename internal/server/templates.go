package server

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/dshills/clausecritic/internal/rules"
	"github.com/dshills/clausecritic/internal/schema"
)

type indexData struct {
	Rules       []rules.Rule
	MaxUploadMB int
}

type reportData struct {
	Res        *schema.Result
	ResultJSON string // embedded for stateless export
	Text       string // the exact text the model saw
	Failing    []schema.RuleCheck
}

type errorData struct {
	Status  int
	Message string
	Raw     string
}

const pageStyle = `<style>
body { font-family: system-ui, sans-serif; max-width: 64rem; margin: 2rem auto; padding: 0 1rem; color: #1a1a1a; }
table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
th, td { border: 1px solid #d0d0d0; padding: 0.4rem 0.6rem; text-align: left; vertical-align: top; }
th { background: #f5f5f5; }
.pass { color: #1a7f37; font-weight: 600; }
.fail { color: #cf222e; font-weight: 600; }
.muted { color: #6a6a6a; font-size: 0.9rem; }
.summary { display: flex; gap: 2rem; margin: 1rem 0; }
pre { background: #f6f8fa; padding: 0.6rem; overflow-x: auto; }
button { margin-right: 0.5rem; }
</style>`

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>ClauseCritic</title>` + pageStyle + `</head>
<body>
<h1>ClauseCritic</h1>
<p>Upload a contract PDF to check it against the fixed compliance rules below.</p>
<form method="post" action="/check" enctype="multipart/form-data">
  <input type="file" name="file" accept="application/pdf" required>
  <button type="submit">Check compliance</button>
</form>
<p class="muted">PDF only, up to {{.MaxUploadMB}} MiB.</p>
<h2>Compliance rules</h2>
<table>
<tr><th>Rule</th><th>Category</th><th>Severity</th><th>Description</th></tr>
{{range .Rules}}<tr><td>{{.Name}}</td><td>{{.Category}}</td><td>{{.Severity}}</td><td>{{.Description}}</td></tr>
{{end}}</table>
</body>
</html>
`))

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>ClauseCritic — {{.Res.Input.Filename}}</title>` + pageStyle + `</head>
<body>
<h1>Compliance report</h1>
<div class="summary">
  <div><strong>File:</strong> {{.Res.Input.Filename}} ({{.Res.Input.Pages}} pages)</div>
  <div><strong>Overall:</strong> <span class="{{if eq .Res.Summary.Verdict "PASS"}}pass{{else}}fail{{end}}">{{.Res.Summary.Verdict}}</span></div>
  <div><strong>Passed:</strong> {{.Res.Summary.Passed}}/5 ({{.Res.Summary.Rate}}%)</div>
</div>
{{if .Res.Input.Redacted}}<p class="muted">Detected secrets were redacted before the text left this host.</p>{{end}}
<table>
<tr><th>Rule</th><th>Severity</th><th>Verdict</th><th>Confidence</th><th>Explanation</th></tr>
{{range .Res.Checks}}<tr>
  <td>{{.RuleName}}</td>
  <td>{{.Severity}}</td>
  <td class="{{if eq .Verdict "PASS"}}pass{{else}}fail{{end}}">{{.Verdict}}</td>
  <td>{{.Confidence}}</td>
  <td>{{.Explanation}}</td>
</tr>
{{end}}</table>
{{if .Failing}}<h2>Remediation</h2>
{{range .Failing}}{{if .Remediation}}<p><strong>{{.RuleName}}:</strong> {{.Remediation}}</p>
{{end}}{{end}}{{end}}
{{if .Res.Amendments}}<h2>Suggested amendments</h2>
{{range .Res.Amendments}}<p><strong>{{.RuleID}}</strong></p>
<p class="muted">Before:</p><pre>{{.Before}}</pre>
<p class="muted">After:</p><pre>{{.After}}</pre>
{{end}}{{end}}
<h2>Export</h2>
<form method="post" action="/export">
  <input type="hidden" name="result" value="{{.ResultJSON}}">
  <input type="hidden" name="text" value="{{.Text}}">
  <button name="format" value="json">JSON</button>
  <button name="format" value="csv">CSV</button>
  <button name="format" value="xlsx">XLSX</button>
  {{if .Res.Amendments}}<button name="format" value="patch">Amendment patch</button>{{end}}
</form>
<p class="muted">Model: {{.Res.Meta.Model}} | Temperature: {{.Res.Meta.Temperature}}</p>
<p><a href="/">Check another contract</a></p>
</body>
</html>
`))

var errorTmpl = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>ClauseCritic — error</title>` + pageStyle + `</head>
<body>
<h1>Check failed</h1>
<p class="fail">{{.Message}}</p>
<p class="muted">HTTP {{.Status}}</p>
{{if .Raw}}<p class="muted">Raw model response:</p>
<pre>{{.Raw}}</pre>{{end}}
<p><a href="/">Back</a></p>
</body>
</html>
`))

// renderTemplate executes into a buffer first so a template error never
// emits half a page.
func (s *Server) renderTemplate(w http.ResponseWriter, status int, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		s.logger.Error("template.fail", "template", tmpl.Name(), "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes()) //nolint:errcheck
}

func (s *Server) renderError(w http.ResponseWriter, status int, msg, raw string) {
	s.renderTemplate(w, status, errorTmpl, errorData{Status: status, Message: msg, Raw: raw})
}
