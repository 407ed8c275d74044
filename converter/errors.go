package converter

import "fmt"

// Stage names the pipeline step a fatal error came from.
type Stage string

const (
	StageEncode Stage = "encode"
	StageRender Stage = "render"
	StageExport Stage = "export"
)

// Error is returned by Process for failures that abort the run.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func fail(stage Stage, err error) error {
	return &Error{Stage: stage, Err: err}
}
