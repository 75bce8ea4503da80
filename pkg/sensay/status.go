package sensay

// Status is the remote processing state of a knowledge base entry.
// The remote pipeline moves entries forward asynchronously; we only ever
// observe the current value by re-listing the collection.
type Status string

const (
	StatusNew           Status = "NEW"
	StatusFileUploaded  Status = "FILE_UPLOADED"
	StatusRawText       Status = "RAW_TEXT"
	StatusProcessedText Status = "PROCESSED_TEXT"
	StatusVectorCreated Status = "VECTOR_CREATED"
	StatusReady         Status = "READY"
	StatusUnprocessable Status = "UNPROCESSABLE"
)

// terminalStatuses is the single source of truth for "no further automatic
// transition happens". Every call site that cares about terminality must go
// through Terminal() instead of comparing strings ad-hoc.
var terminalStatuses = map[Status]bool{
	StatusVectorCreated: true,
	StatusReady:         true,
	StatusUnprocessable: true,
}

// Terminal reports whether the status is a final state (success or failure).
func (s Status) Terminal() bool {
	return terminalStatuses[s]
}

// Failed reports whether the status is the terminal failure state.
func (s Status) Failed() bool {
	return s == StatusUnprocessable
}
