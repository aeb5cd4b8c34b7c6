package domain

// TraceStep records one attempted resolution step.
type TraceStep struct {
	Segment string `json:"segment"`
	Keyword string `json:"keyword"`
	Pattern string `json:"pattern"`
	Matched bool   `json:"matched"`
	Offset  int    `json:"offset"` // Absolute offset of the match in the document, -1 when unmatched
}

// Trace is the ordered list of resolution steps, collected only on request.
type Trace []TraceStep
