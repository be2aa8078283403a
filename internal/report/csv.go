// # internal/report/csv.go
package report

import (
	"fmt"
	"strconv"
	"strings"
)

// EncodeCSV renders rows with RFC-4180 escaping: fields containing a comma,
// a double quote, CR or LF are quoted, and embedded quotes double. Records
// terminate with CRLF as the RFC prescribes.
func EncodeCSV(rows [][]string) string {
	var buf strings.Builder
	for _, row := range rows {
		for i, field := range row {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(csvEscape(field))
		}
		buf.WriteString("\r\n")
	}
	return buf.String()
}

func csvEscape(field string) string {
	if !strings.ContainsAny(field, ",\"\r\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// FlattenedCSV renders a flattened document as a two-column key,value CSV
// with a header row.
func FlattenedCSV(d *Document) string {
	kvs := d.Flatten()
	rows := make([][]string, 0, len(kvs)+1)
	rows = append(rows, []string{"key", "value"})
	for _, kv := range kvs {
		rows = append(rows, []string{kv.Key, formatValue(kv.Value)})
	}
	return EncodeCSV(rows)
}

func formatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		// shortest representation that round-trips the exact value
		return strconv.FormatFloat(value, 'g', -1, 64)
	case bool:
		if value {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", value)
	}
}
