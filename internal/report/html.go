package report

import (
	"fmt"
	"html/template"
	"io"

	"github.com/zjy-dev/diff-cover/internal/correlate"
)

// DefaultCSS styles the standalone HTML report. It is inlined into the
// page unless an external CSS file is configured.
const DefaultCSS = `body { font-family: sans-serif; margin: 2em; color: #222; }
h1 { border-bottom: 2px solid #444; padding-bottom: 0.2em; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid #999; padding: 0.3em 0.8em; text-align: left; }
th { background: #eee; }
.covered { color: #1a7f37; }
.violation { color: #c62828; }
`

const htmlTemplateText = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Diff Coverage</title>
{{if .CSSURL}}<link rel="stylesheet" type="text/css" href="{{.CSSURL}}">
{{else}}<style>
{{.CSS}}</style>
{{end}}</head>
<body>
<h1>Diff Coverage</h1>
<p>Diff: {{.Result.DiffName}}</p>
<table>
<tr><th>File</th><th>Coverage</th><th>Missing lines</th></tr>
{{range .Files}}<tr>
<td>{{.Path}}</td>
<td class="{{if .Violations}}violation{{else}}covered{{end}}">{{printf "%.1f" .Percent}}%</td>
<td>{{.Missing}}</td>
</tr>
{{end}}</table>
<p>Total: {{.Result.TotalLines}} line(s), missing: {{.Violations}} line(s), files: {{len .Result.Files}}</p>
<p>Coverage: <strong>{{printf "%.1f" .Percent}}%</strong></p>
</body>
</html>
`

var htmlTemplate = template.Must(template.New("report").Parse(htmlTemplateText))

// HTMLGenerator renders the standalone HTML report.
type HTMLGenerator struct {
	// CSSURL, when set, is referenced via a <link> tag instead of
	// inlining DefaultCSS.
	CSSURL string
}

// NewHTMLGenerator creates an HTMLGenerator.
func NewHTMLGenerator(cssURL string) *HTMLGenerator {
	return &HTMLGenerator{CSSURL: cssURL}
}

type htmlFile struct {
	Path       string
	Percent    float64
	Violations []int
	Missing    string
}

type htmlData struct {
	Result     correlate.Result
	Files      []htmlFile
	Percent    float64
	Violations int
	CSSURL     string
	CSS        template.CSS
}

// Generate implements Generator.
func (g *HTMLGenerator) Generate(w io.Writer, result correlate.Result) error {
	data := htmlData{
		Result:     result,
		Percent:    correlate.RoundPercent(result.Percent()),
		Violations: result.TotalViolations(),
		CSSURL:     g.CSSURL,
		CSS:        template.CSS(DefaultCSS),
	}
	for _, f := range result.Files {
		data.Files = append(data.Files, htmlFile{
			Path:       f.Path,
			Percent:    correlate.RoundPercent(f.Percent()),
			Violations: f.Violations,
			Missing:    joinLines(f.Violations),
		})
	}

	if err := htmlTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}

// WriteCSS writes the stylesheet for the external CSS file mode.
func (g *HTMLGenerator) WriteCSS(w io.Writer) error {
	_, err := io.WriteString(w, DefaultCSS)
	return err
}
