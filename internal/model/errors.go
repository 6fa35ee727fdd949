package model

import "errors"

var (
	ErrRootNotFound      = errors.New("root not found")
	ErrMissingDependency = errors.New("missing dependency")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrEntryOutOfBounds  = errors.New("entry out of bounds")
	ErrPathForbidden     = errors.New("path forbidden")
	ErrNotFound          = errors.New("not found")
	ErrRenderFailure     = errors.New("render failure")
	ErrEmptyCorpus       = errors.New("empty corpus")
)

// Classify returns a short kind name for err, used as a log attribute.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRootNotFound):
		return "root_not_found"
	case errors.Is(err, ErrMissingDependency):
		return "missing_dependency"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrEntryOutOfBounds), errors.Is(err, ErrPathForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrRenderFailure):
		return "render_failure"
	case errors.Is(err, ErrEmptyCorpus):
		return "empty_corpus"
	default:
		return "unknown"
	}
}
