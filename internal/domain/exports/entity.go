package exports

import (
	"fmt"
	"strings"
	"time"
)

type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
)

// ParseFormat accepts csv and excel (or xlsx), case-insensitive.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, true
	case "excel", "xlsx":
		return FormatExcel, true
	}
	return "", false
}

// Extension is the file extension for archived copies.
func (f Format) Extension() string {
	if f == FormatExcel {
		return "xlsx"
	}
	return "csv"
}

// ContentType is used when the backend does not send one.
func (f Format) ContentType() string {
	if f == FormatExcel {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// File is one downloaded export.
type File struct {
	Format      Format
	ContentType string
	Filename    string
	Data        []byte
}

// ObjectKey names an archived export: audits/<yyyy>/<mm>/audits-<stamp>.<ext>.
func ObjectKey(f Format, at time.Time) string {
	at = at.UTC()
	return fmt.Sprintf("audits/%04d/%02d/audits-%s.%s", at.Year(), int(at.Month()), at.Format("20060102-150405"), f.Extension())
}
