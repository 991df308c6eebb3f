package tower

import "errors"

var (
	// ErrCredentialMissing means no usable remembered credentials were found.
	ErrCredentialMissing = errors.New("tower: credentials missing")
	// ErrSessionEstablishmentFailed means the site rejected the remembered
	// credentials or did not hand out a session cookie.
	ErrSessionEstablishmentFailed = errors.New("tower: session establishment failed")
	// ErrMarkupMismatch means an expected pattern was not found in a response
	// body, the remote page structure has most likely changed.
	ErrMarkupMismatch = errors.New("tower: markup mismatch")
	// ErrTransport wraps network level failures and unexpected HTTP statuses.
	ErrTransport = errors.New("tower: transport error")
	// ErrUnexpectedResponseShape means a JSON response lacked an expected
	// field or carried it with the wrong type.
	ErrUnexpectedResponseShape = errors.New("tower: unexpected response shape")
	// ErrUnknownMember means a display name is not in the member directory.
	ErrUnknownMember = errors.New("tower: unknown member")
	// ErrAlignmentViolation means answers and fields no longer correspond
	// index for index. Seeing it is always a defect.
	ErrAlignmentViolation = errors.New("tower: answers do not align with report fields")
)
