package export

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/gnana997/figscan/pkg/scan"
	"github.com/gnana997/figscan/pkg/traverse"
)

// reportTemplate renders the grouped HTML report. Groups follow the order
// records were discovered in, so the report mirrors scan order.
var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Component usage report: {{.Target}}</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
h1 { font-size: 1.4em; }
h2 { font-size: 1.1em; margin-top: 1.5em; border-bottom: 1px solid #ccc; }
h3 { font-size: 1em; margin-bottom: 0.2em; }
table { border-collapse: collapse; margin: 0.5em 0 1em; }
th, td { border: 1px solid #ddd; padding: 0.3em 0.7em; text-align: left; font-size: 0.9em; }
.meta { color: #666; font-size: 0.9em; }
.count { color: #666; font-weight: normal; }
</style>
</head>
<body>
<h1>Component usage report: {{.Target}}</h1>
<p class="meta">Session {{.SessionID}} &middot; scope {{.Scope}} &middot; started {{.StartedAt}} &middot; {{.Total}} instances{{if .Cancelled}} &middot; partial (scan cancelled){{end}}{{if .Skipped}} &middot; {{.Skipped}} files skipped{{end}}</p>
{{range .Files}}
<h2>{{.Name}} <span class="count">({{.Count}} instances)</span></h2>
{{range .Pages}}
<h3>{{.Name}} <span class="count">({{.Count}})</span></h3>
<table>
<tr><th>Node</th><th>Node ID</th><th>Kind</th><th>Path</th><th>Variant</th></tr>
{{range .Records}}
<tr><td>{{.NodeName}}</td><td>{{.NodeID}}</td><td>{{.Kind}}</td><td>{{.Path}}</td><td>{{.Variant}}</td></tr>
{{end}}
</table>
{{end}}
{{end}}
{{if not .Files}}<p>No instances found.</p>{{end}}
</body>
</html>
`))

type reportRecord struct {
	NodeName string
	NodeID   string
	Kind     string
	Path     string
	Variant  string
}

type reportPage struct {
	Name    string
	Count   int
	Records []reportRecord
}

type reportFile struct {
	Name  string
	Count int
	Pages []*reportPage
	pages map[string]*reportPage
}

type reportData struct {
	Target    string
	SessionID string
	Scope     string
	StartedAt string
	Total     int
	Cancelled bool
	Skipped   int
	Files     []*reportFile
}

// ToReport renders the session as an HTML report grouped by origin file,
// then by page, with counts per group.
func ToReport(sess *scan.Session) (string, error) {
	data := reportData{
		Target:    sess.Target.DisplayName,
		SessionID: sess.ID,
		Scope:     string(sess.Scope),
		StartedAt: sess.StartedAt.UTC().Format(time.RFC3339),
		Total:     sess.TotalInstances(),
		Cancelled: sess.Cancelled,
		Skipped:   sess.FilesSkipped,
	}

	files := make(map[string]*reportFile)
	for _, rec := range sess.Records {
		fileID := rec.FileKey + "\x00" + rec.FileName
		file, ok := files[fileID]
		if !ok {
			file = &reportFile{Name: fileLabel(rec), pages: make(map[string]*reportPage)}
			files[fileID] = file
			data.Files = append(data.Files, file)
		}
		file.Count++

		page, ok := file.pages[rec.PageID]
		if !ok {
			page = &reportPage{Name: rec.PageName}
			file.pages[rec.PageID] = page
			file.Pages = append(file.Pages, page)
		}
		page.Count++
		page.Records = append(page.Records, reportRecord{
			NodeName: rec.NodeName,
			NodeID:   rec.NodeID,
			Kind:     string(rec.Kind),
			Path:     strings.Join(rec.Path, " / "),
			Variant:  rec.Variant,
		})
	}

	var sb strings.Builder
	if err := reportTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return sb.String(), nil
}

func fileLabel(rec traverse.Occurrence) string {
	if rec.FileKey == "" {
		return rec.FileName
	}
	return fmt.Sprintf("%s (%s)", rec.FileName, rec.FileKey)
}
