package manager

// invalidArgumentError signals a request that fails validation before any
// engine is touched (400 mapping).
type invalidArgumentError struct{ msg string }

func (e invalidArgumentError) Error() string { return "invalid argument: " + e.msg }

// ErrInvalidArgument constructs an invalidArgumentError.
func ErrInvalidArgument(msg string) error { return invalidArgumentError{msg: msg} }

// IsInvalidArgument reports whether err is a request-validation failure.
func IsInvalidArgument(err error) bool {
	_, ok := err.(invalidArgumentError)
	return ok
}

// noModelLoadedError signals generation before any successful load (409 mapping).
type noModelLoadedError struct{}

func (noModelLoadedError) Error() string { return "no model loaded" }

// ErrNoModelLoaded constructs a noModelLoadedError.
func ErrNoModelLoaded() error { return noModelLoadedError{} }

// IsNoModelLoaded reports whether err indicates no model is resident.
func IsNoModelLoaded(err error) bool {
	_, ok := err.(noModelLoadedError)
	return ok
}

// modelLoadError wraps an engine construction failure.
type modelLoadError struct {
	modelID string
	cause   error
}

func (e modelLoadError) Error() string {
	return "failed to load model " + e.modelID + ": " + e.cause.Error()
}

func (e modelLoadError) Unwrap() error { return e.cause }

// ErrModelLoad constructs a modelLoadError.
func ErrModelLoad(modelID string, cause error) error {
	return modelLoadError{modelID: modelID, cause: cause}
}

// IsModelLoad reports whether err indicates an engine construction failure.
func IsModelLoad(err error) bool {
	_, ok := err.(modelLoadError)
	return ok
}

// generationError wraps any failure during inference or image encoding.
type generationError struct{ cause error }

func (e generationError) Error() string { return "generation failed: " + e.cause.Error() }

func (e generationError) Unwrap() error { return e.cause }

// ErrGeneration constructs a generationError.
func ErrGeneration(cause error) error { return generationError{cause: cause} }

// IsGeneration reports whether err indicates an inference failure.
func IsGeneration(err error) bool {
	_, ok := err.(generationError)
	return ok
}

// tooBusyError signals admission timeout for 429 mapping.
type tooBusyError struct{ modelID string }

func (e tooBusyError) Error() string { return "too busy: " + e.modelID }

// ErrTooBusy constructs a tooBusyError.
func ErrTooBusy(modelID string) error { return tooBusyError{modelID: modelID} }

// IsTooBusy reports whether err indicates backpressure.
func IsTooBusy(err error) bool {
	_, ok := err.(tooBusyError)
	return ok
}
