package orchestrator

import (
	"errors"
	"fmt"
)

// Stage names a step of the generation pipeline.
type Stage string

// Pipeline stages, in execution order.
const (
	StageResolving   Stage = "resolving"
	StageNormalizing Stage = "normalizing"
	StageAdapting    Stage = "adapting"
	StageValidating  Stage = "validating"
	StageRendering   Stage = "rendering"
	StageComposing   Stage = "composing"
	StagePersisting  Stage = "persisting"
)

// Class groups failures by how a caller should react to them.
type Class string

const (
	ClassNotFound     Class = "not_found"
	ClassUnregistered Class = "unregistered"
	ClassInvalidInput Class = "invalid_input"
	ClassRendering    Class = "rendering"
	ClassStorage      Class = "storage"
)

var (
	// ErrNotFound reports a missing client, template or generated document.
	ErrNotFound = errors.New("orchestrator: not found")
	// ErrUnregisteredAdapter reports a template title with no registered kind.
	ErrUnregisteredAdapter = errors.New("orchestrator: no adapter registered for template")
	// ErrInvalidPayload reports a canonical payload rejected by the template's
	// field schema.
	ErrInvalidPayload = errors.New("orchestrator: payload does not match field schema")
)

// Error is returned by every orchestrator operation. Err keeps the underlying
// cause, so errors.Is still matches store, artifact, compositor and date
// sentinels.
type Error struct {
	Stage Stage
	Class Class
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("orchestrator: %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ClassOf returns the class of err, or "" when err was not produced by the
// orchestrator.
func ClassOf(err error) Class {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Class
	}
	return ""
}

// StageOf returns the stage err failed in, or "".
func StageOf(err error) Stage {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Stage
	}
	return ""
}

func fail(stage Stage, class Class, err error) error {
	return &Error{Stage: stage, Class: class, Err: err}
}
