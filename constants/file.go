package constants

import "strings"

// Format is the serialization used for extracted records.
type Format string

const (
	CSV    Format = "CSV"
	XLSX   Format = "XLSX"
	JSON   Format = "JSON"
	SQLite Format = "SQLITE"
)

// Formats holds every supported output format.
var Formats = []Format{CSV, XLSX, JSON, SQLite}

// outputExtensions maps a normalized output extension to its format.
var outputExtensions = map[string]Format{
	"csv":    CSV,
	"xlsx":   XLSX,
	"json":   JSON,
	"db":     SQLite,
	"sqlite": SQLite,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns the output format for an extension. Unknown extensions
// fall back to CSV, which is what the tool has always written.
func MapExtToFormat(ext string) Format {
	if f, ok := outputExtensions[NormalizeExt(ext)]; ok {
		return f
	}
	return CSV
}

// ParseFormat accepts a user supplied format name ("csv", "XLSX", ...).
func ParseFormat(s string) (Format, bool) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for _, f := range Formats {
		if string(f) == want {
			return f, true
		}
	}
	return "", false
}
