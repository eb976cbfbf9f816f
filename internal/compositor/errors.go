package compositor

import "errors"

var (
	// ErrDisplayUnavailable means the X connection or the requested
	// output could not be opened or queried.
	ErrDisplayUnavailable = errors.New("display unavailable")

	// ErrCompositor means the server rejected a batch operation or a
	// session/layer lifecycle rule was violated.
	ErrCompositor = errors.New("compositor error")

	// ErrResourceUpload means pixel data could not be uploaded into a
	// layer's backing resource.
	ErrResourceUpload = errors.New("resource upload failed")
)
