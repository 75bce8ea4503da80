package sensay

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrMissingSecret means no organization secret is configured. This is a
	// local precondition, raised before any network call is attempted.
	ErrMissingSecret = errors.New("sensay: organization secret not configured")

	// ErrMissingUserID means a user-scoped call was attempted without an
	// acting user id.
	ErrMissingUserID = errors.New("sensay: acting user id not configured")

	// ErrSlugTaken is returned by CreateReplica when the remote rejects the
	// slug as already claimed. Callers attach this to the slug input field
	// instead of showing a generic failure.
	ErrSlugTaken = errors.New("sensay: replica slug already exists")

	// ErrNoSignedURL is returned by RequestFileUpload when the negotiation
	// succeeded but the response carried no upload target. The byte-transfer
	// step must not be attempted in that case.
	ErrNoSignedURL = errors.New("sensay: upload negotiation returned no signed URL")
)

// The remote only signals slug conflicts through its error message text.
var slugConflictRe = regexp.MustCompile(`(?i)slug.*already exists`)

// APIError is any non-2xx response from the remote platform that is not
// recognized as a more specific condition. These are recoverable: callers
// report them to the user and treat the operation as not having happened.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("sensay: remote returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("sensay: remote returned status %d: %s", e.StatusCode, e.Message)
}

// IsRemoteError reports whether err is a plain remote failure (as opposed to
// a local precondition or a named condition like ErrSlugTaken).
func IsRemoteError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// Phases of the two-step file upload.
const (
	UploadPhaseNegotiate = "negotiate"
	UploadPhaseTransfer  = "transfer"
)

// UploadError marks which half of the file upload failed. The distinction
// matters to callers: a negotiation failure means no bytes were sent, while a
// transfer failure means the platform may have allocated an item that never
// received its content.
type UploadError struct {
	Phase string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("sensay: file upload failed during %s: %v", e.Phase, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
