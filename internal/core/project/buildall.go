package project

import (
	"context"
	"errors"
	"fmt"
)

// Stages of BuildAll.
const (
	StageCreate  = "create"
	StageInstall = "install"
	StageBuild   = "build"
)

// ErrStageFailed is matched by every *StageError.
var ErrStageFailed = errors.New("build stage failed")

// StageError reports which BuildAll stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStageFailed, e.Stage, e.Err)
}

func (e *StageError) Unwrap() []error {
	return []error{ErrStageFailed, e.Err}
}

// BuildAll runs create, install and build in order and stops at the first
// failure.
func (p *Project) BuildAll(ctx context.Context) (Result, error) {
	res, err := p.Create(ctx)
	if err != nil {
		return res, &StageError{Stage: StageCreate, Err: err}
	}
	if err := p.Install(ctx); err != nil {
		return res, &StageError{Stage: StageInstall, Err: err}
	}
	if err := p.Build(ctx); err != nil {
		return res, &StageError{Stage: StageBuild, Err: err}
	}
	return res, nil
}
