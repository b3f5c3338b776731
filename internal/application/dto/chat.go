package dto

// Query response statuses reported by the backend.
const (
	QueryStatusSuccess = "success"
	QueryStatusError   = "error"
)

// SourceExcerptLimit is the number of characters of a source the backend
// includes before truncating with an ellipsis.
const SourceExcerptLimit = 200

// QueryRequest is the body of a chat query.
type QueryRequest struct {
	Query string `json:"query"`
}

// Source is a documentation section cited in an answer.
type Source struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// QueryMetadata describes the model run that produced an answer.
type QueryMetadata struct {
	Model *string `json:"model"`
	RunID *string `json:"run_id"`
}

// QueryData holds the answer and its sources.
type QueryData struct {
	Answer   string        `json:"answer"`
	Sources  []Source      `json:"sources"`
	Metadata QueryMetadata `json:"metadata"`
	Error    string        `json:"error,omitempty"`
}

// QueryResponse is the response of the chat query endpoint.
type QueryResponse struct {
	Status string    `json:"status"`
	Data   QueryData `json:"data"`
}

// IsError reports whether the backend failed to answer the query.
func (r QueryResponse) IsError() bool {
	return r.Status == QueryStatusError
}

// ModelName returns the model that produced the answer, or "" when unknown.
func (m QueryMetadata) ModelName() string {
	if m.Model == nil {
		return ""
	}
	return *m.Model
}

// RunIdentifier returns the run ID, or "" when unknown.
func (m QueryMetadata) RunIdentifier() string {
	if m.RunID == nil {
		return ""
	}
	return *m.RunID
}
