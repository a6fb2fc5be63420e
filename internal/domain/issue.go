package domain

// ChangeItem is a single field change inside a history entry.
type ChangeItem struct {
	Field      string  `json:"field"`
	FromString *string `json:"from_string,omitempty"`
	ToString   string  `json:"to_string"`
}

// HistoryEntry is one audit-history record of an issue. Created is kept as
// the raw tracker timestamp; parsing happens inside the engine.
type HistoryEntry struct {
	ID      string       `json:"id,omitempty"`
	Created string       `json:"created"`
	Items   []ChangeItem `json:"items"`
}

// Issue is the opaque ticket record handed over by the data source.
type Issue struct {
	Key               string         `json:"key"`
	Summary           string         `json:"summary"`
	IssueType         string         `json:"issue_type,omitempty"`
	Status            string         `json:"status"`
	ProjectName       string         `json:"project_name,omitempty"`
	ProjectType       string         `json:"project_type,omitempty"`
	Priority          *string        `json:"priority,omitempty"`
	Resolution        *string        `json:"resolution,omitempty"`
	Assignee          string         `json:"assignee,omitempty"`
	Reporter          string         `json:"reporter,omitempty"`
	Creator           string         `json:"creator,omitempty"`
	Created           string         `json:"created"`
	Updated           string         `json:"updated,omitempty"`
	Resolved          *string        `json:"resolved,omitempty"`
	Components        []string       `json:"components,omitempty"`
	SourceDetection   string         `json:"source_detection,omitempty"`
	InvestigationType string         `json:"investigation_type,omitempty"`
	Histories         []HistoryEntry `json:"histories"`
}
