package model

type TraceEntryType string

const (
	TraceSuccess TraceEntryType = "success"
	TraceError   TraceEntryType = "error"
	TraceInfo    TraceEntryType = "info"
)

// TraceEntry is one line of the console trace returned to the caller.
// Per-case entries carry a 1-based index and the hidden marker; the
// final summary entry carries neither.
type TraceEntry struct {
	Type    TraceEntryType `json:"type"`
	Index   int            `json:"index,omitempty"`
	Hidden  bool           `json:"hidden,omitempty"`
	Message string         `json:"message"`
	Details *TraceDetails  `json:"details,omitempty"`
}

// TraceDetails are omitted entirely for hidden test cases.
type TraceDetails struct {
	Input    string  `json:"input,omitempty"`
	Expected *string `json:"expected,omitempty"`
	Actual   *string `json:"actual,omitempty"`
	Error    *string `json:"error,omitempty"`
}
