// Package export turns a completed scan session into a serialized report.
// All transforms are pure: the same session always produces the same bytes.
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gnana997/figscan/pkg/scan"
)

// Format names an export format.
type Format string

const (
	FormatStructured Format = "json"
	FormatTabular    Format = "csv"
	FormatReport     Format = "html"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatStructured:
		return FormatStructured, nil
	case FormatTabular:
		return FormatTabular, nil
	case FormatReport:
		return FormatReport, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json, csv, or html)", name)
}

// Export serializes the session in the given format.
func Export(sess *scan.Session, format Format) (string, error) {
	switch format {
	case FormatStructured:
		return ToStructured(sess)
	case FormatTabular:
		return ToTabular(sess), nil
	case FormatReport:
		return ToReport(sess)
	}
	return "", fmt.Errorf("unknown export format %q", format)
}

// StructuredReport is the JSON export envelope. It round-trips: parsing the
// output reconstructs the session with identical id, record count, and total.
type StructuredReport struct {
	scan.Session
	TotalInstances int `json:"totalInstances"`
}

// ToStructured renders the session as indented JSON.
func ToStructured(sess *scan.Session) (string, error) {
	report := StructuredReport{Session: *sess, TotalInstances: sess.TotalInstances()}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}
	return string(data) + "\n", nil
}

// ParseStructured parses a structured report back into its envelope.
func ParseStructured(data []byte) (*StructuredReport, error) {
	var report StructuredReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	return &report, nil
}

// tabularHeader is the fixed CSV column set, one row per record.
var tabularHeader = []string{
	"File", "File Key", "Page", "Node", "Node ID", "Kind", "Path", "Variant", "Discovered At",
}

// ToTabular renders the session as CSV. Every field is quoted.
func ToTabular(sess *scan.Session) string {
	var sb strings.Builder
	writeRow(&sb, tabularHeader)
	for _, rec := range sess.Records {
		writeRow(&sb, []string{
			rec.FileName,
			rec.FileKey,
			rec.PageName,
			rec.NodeName,
			rec.NodeID,
			string(rec.Kind),
			strings.Join(rec.Path, " / "),
			rec.Variant,
			rec.DiscoveredAt.UTC().Format(time.RFC3339),
		})
	}
	return sb.String()
}

func writeRow(sb *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(f, `"`, `""`))
		sb.WriteByte('"')
	}
	sb.WriteByte('\n')
}
