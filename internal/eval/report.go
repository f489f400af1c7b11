package eval

import (
	"fmt"
	htmltemplate "html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	texttemplate "text/template"
	"time"
)

// Report is the cross-category aggregate handed to the renderers.
type Report struct {
	GeneratedAt time.Time
	Mode        Mode
	Categories  []CategoryResult
}

// TotalScenarios returns how many scenarios ran across all categories.
func (r Report) TotalScenarios() int {
	n := 0
	for _, c := range r.Categories {
		n += len(c.Scenarios)
	}
	return n
}

// TotalPassed returns how many scenarios passed across all categories.
func (r Report) TotalPassed() int {
	n := 0
	for _, c := range r.Categories {
		n += c.Passed()
	}
	return n
}

// PassRate returns the overall pass rate in [0, 1]. An empty report scores 0.
func (r Report) PassRate() float64 {
	total := r.TotalScenarios()
	if total == 0 {
		return 0
	}
	return float64(r.TotalPassed()) / float64(total)
}

// Failures returns every failed scenario result, tagged with its category.
func (r Report) Failures() []TaggedResult {
	var out []TaggedResult
	for _, c := range r.Categories {
		for _, s := range c.Scenarios {
			if !s.Passed {
				out = append(out, TaggedResult{Category: c.Category, ScenarioResult: s})
			}
		}
	}
	return out
}

// TaggedResult pairs a scenario result with its category for flat listings.
type TaggedResult struct {
	Category string
	ScenarioResult
}

// NewReport builds a report from category results. Mode is taken from the
// first category; a fixture set always runs in one mode.
func NewReport(categories []CategoryResult) Report {
	r := Report{GeneratedAt: time.Now().UTC(), Categories: categories}
	if len(categories) > 0 {
		r.Mode = categories[0].Mode
	}
	return r
}

// WriteConsole renders a plain-text summary to w.
func (r Report) WriteConsole(w io.Writer) error {
	fmt.Fprintf(w, "Correction evaluation — %s mode\n\n", r.Mode)
	for _, c := range r.Categories {
		fmt.Fprintf(w, "  %-30s %d/%d passed\n", c.Category, c.Passed(), len(c.Scenarios))
	}
	fmt.Fprintf(w, "\n  Overall: %d/%d passed (%.1f%%)\n", r.TotalPassed(), r.TotalScenarios(), r.PassRate()*100)

	failures := r.Failures()
	if len(failures) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\nFailures:\n")
	for _, f := range failures {
		fmt.Fprintf(w, "\n  %s\n", f.ID)
		if f.Error != "" {
			fmt.Fprintf(w, "    error:      %s\n", f.Error)
			continue
		}
		if f.RawRecognized != "" {
			fmt.Fprintf(w, "    recognized: %s\n", f.RawRecognized)
		}
		fmt.Fprintf(w, "    expected:   %s\n", f.Expected)
		fmt.Fprintf(w, "    actual:     %s\n", f.Actual)
		fmt.Fprintf(w, "    similarity: %.3f (minimum %.3f)\n", f.Similarity, f.MinSimilarity)
		for _, msg := range f.FailedAssertions {
			fmt.Fprintf(w, "    assertion:  %s\n", msg)
		}
		for _, hint := range f.DictionaryHints {
			fmt.Fprintf(w, "    dictionary: %s\n", hint)
		}
	}
	return nil
}

// WriteFiles renders report.html and report.md into dir.
func (r Report) WriteFiles(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	var html strings.Builder
	if err := htmlReportTmpl.Execute(&html, r); err != nil {
		return fmt.Errorf("render HTML report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "report.html"), []byte(html.String()), 0o644); err != nil {
		return fmt.Errorf("write HTML report: %w", err)
	}

	var md strings.Builder
	if err := markdownReportTmpl.Execute(&md, r); err != nil {
		return fmt.Errorf("render Markdown report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "report.md"), []byte(md.String()), 0o644); err != nil {
		return fmt.Errorf("write Markdown report: %w", err)
	}
	return nil
}

var reportFuncs = map[string]any{
	"pct": func(f float64) string { return fmt.Sprintf("%.1f%%", f*100) },
	"f3":  func(f float64) string { return fmt.Sprintf("%.3f", f) },
}

var htmlReportTmpl = htmltemplate.Must(htmltemplate.New("report.html").Funcs(reportFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Correction evaluation report</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 60rem; color: #222; }
table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.6rem; text-align: left; }
th { background: #f4f4f4; }
.pass { color: #1a7f37; }
.fail { color: #cf222e; }
.detail { background: #fafafa; font-size: 0.9rem; }
</style>
</head>
<body>
<h1>Correction evaluation report</h1>
<p>Generated {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}} — mode: {{.Mode}}</p>
<h2>Summary</h2>
<table>
<tr><th>Category</th><th>Passed</th><th>Total</th></tr>
{{range .Categories}}<tr><td>{{.Category}}</td><td>{{.Passed}}</td><td>{{len .Scenarios}}</td></tr>
{{end}}<tr><th>Overall</th><th>{{.TotalPassed}}</th><th>{{.TotalScenarios}} ({{pct .PassRate}})</th></tr>
</table>
{{with .Failures}}
<h2>Failures</h2>
{{range .}}
<h3 class="fail">{{.ID}}</h3>
<table class="detail">
{{if .Error}}<tr><th>Error</th><td>{{.Error}}</td></tr>
{{else}}{{if .RawRecognized}}<tr><th>Recognized</th><td>{{.RawRecognized}}</td></tr>
{{end}}<tr><th>Expected</th><td>{{.Expected}}</td></tr>
<tr><th>Actual</th><td>{{.Actual}}</td></tr>
<tr><th>Similarity</th><td>{{f3 .Similarity}} (minimum {{f3 .MinSimilarity}})</td></tr>
{{range .FailedAssertions}}<tr><th>Assertion</th><td>{{.}}</td></tr>
{{end}}{{range .DictionaryHints}}<tr><th>Dictionary</th><td>{{.}}</td></tr>
{{end}}{{end}}</table>
{{end}}
{{else}}
<p class="pass">All scenarios passed.</p>
{{end}}
</body>
</html>
`))

var markdownReportTmpl = texttemplate.Must(texttemplate.New("report.md").Funcs(reportFuncs).Parse(`# Correction evaluation report

Generated {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}} — mode: {{.Mode}}

## Summary

| Category | Passed | Total |
| --- | --- | --- |
{{range .Categories}}| {{.Category}} | {{.Passed}} | {{len .Scenarios}} |
{{end}}| **Overall** | **{{.TotalPassed}}** | **{{.TotalScenarios}}** ({{pct .PassRate}}) |
{{with .Failures}}
## Failures
{{range .}}
### {{.ID}}
{{if .Error}}
- Error: {{.Error}}
{{- else}}
{{- if .RawRecognized}}
- Recognized: {{.RawRecognized}}
{{- end}}
- Expected: {{.Expected}}
- Actual: {{.Actual}}
- Similarity: {{f3 .Similarity}} (minimum {{f3 .MinSimilarity}})
{{- range .FailedAssertions}}
- Failed assertion: {{.}}
{{- end}}
{{- range .DictionaryHints}}
- Dictionary: {{.}}
{{- end}}
{{- end}}
{{end}}
{{- else}}
All scenarios passed.
{{end}}`))
