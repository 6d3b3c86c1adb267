package entity

// Run is a positioned piece of page text as produced by a text extractor.
// Y grows towards the top of the page.
type Run struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}
