package constants

// PageKind is how the processor classified a page.
type PageKind string

// Stable values (they appear in logs and in the SQL store).
const (
	PageContent  PageKind = "CONTENT"  // rows and/or header, context applied
	PageLegend   PageKind = "LEGEND"   // legend-only, skipped entirely
	PageOrphaned PageKind = "ORPHANED" // rows seen before any claim header, dropped
)

// Engine names the text-extraction backend.
type Engine string

const (
	EnginePDF       Engine = "pdf"       // pure Go reader
	EnginePdftotext Engine = "pdftotext" // poppler pdftotext -bbox
)
