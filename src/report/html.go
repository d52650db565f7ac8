package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/pipeline"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/session"
)

var bodyTmpl = template.Must(template.New("body").Parse(`<style>
.co2-summary{font-family:sans-serif;margin:16px 24px}
.co2-summary dl{display:grid;grid-template-columns:repeat(4,auto);gap:4px 16px}
.co2-summary dt{color:#6c7086}
.co2-table{border-collapse:collapse;font-family:sans-serif;margin:16px 24px}
.co2-table th,.co2-table td{border:1px solid #ddd;padding:4px 10px;text-align:right}
.co2-table tr.predicted-row td{font-style:italic;color:#1db6a8}
.co2-error{color:#c0392b;font-weight:bold}
</style>
<section class="co2-summary">
<h2>{{.Title}}</h2>
{{- if .Failed}}
<p class="co2-error">{{.Message}}</p>
{{- else}}
<dl>
<dt>Predicted</dt><dd>{{.S.Predicted}} {{.Unit}}</dd>
<dt>Last year</dt><dd>{{.S.LastYear}}</dd>
<dt>Change</dt><dd>{{.S.Change}}</dd>
<dt>Trend</dt><dd>{{.S.Trend}}</dd>
<dt>Avg temperature</dt><dd>{{.S.Temp}}</dd>
<dt>Energy use</dt><dd>{{.S.Energy}}</dd>
<dt>GDP</dt><dd>{{.S.GDP}}</dd>
<dt>Population</dt><dd>{{.S.Pop}}</dd>
</dl>
{{- end}}
</section>
{{- if .Rows}}
<table class="co2-table">
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr{{if .IsPredicted}} class="predicted-row"{{end}}>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
{{- end}}
`))

// HTMLBody renders the headline panel and data table as an HTML fragment.
func HTMLBody(snap session.Snapshot) (string, error) {
	var buf bytes.Buffer
	err := bodyTmpl.Execute(&buf, struct {
		Title   string
		Failed  bool
		Message string
		S       pipeline.Summary
		Unit    string
		Headers []string
		Rows    []pipeline.Row
	}{
		Title:   fmt.Sprintf("CO₂ prediction: %s", snap.Country),
		Failed:  snap.State == session.Failed,
		Message: snap.Message,
		S:       snap.Summary,
		Unit:    snap.Unit,
		Headers: pipeline.ColumnTitles[:],
		Rows:    snap.Rows,
	})
	if err != nil {
		return "", fmt.Errorf("render report body: %w", err)
	}
	return buf.String(), nil
}

// FileSlug lowercases name and replaces anything outside [a-z0-9] with '_',
// for file names of exported charts and pages.
func FileSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
