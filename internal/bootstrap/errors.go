package bootstrap

import "github.com/cockroachdb/errors"

// Failure kinds returned by Run. Each is fatal; test with errors.Is.
var (
	ErrWindowInitFailed            = errors.New("window initialization failed")
	ErrValidationLayersUnavailable = errors.New("validation layers unavailable")
	ErrInstanceCreationFailed      = errors.New("instance creation failed")
	ErrDebugMessengerSetupFailed   = errors.New("debug messenger setup failed")
)

// ErrGraphicsLoaderUnavailable marks a failure to load the Vulkan library
// itself, before an Application is built.
var ErrGraphicsLoaderUnavailable = errors.New("graphics loader unavailable")

// fail annotates cause with msg and marks it as kind.
func fail(kind, cause error, msg string) error {
	return errors.Mark(errors.Wrap(cause, msg), kind)
}
