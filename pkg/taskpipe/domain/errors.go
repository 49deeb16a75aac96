package domain

import "errors"

var (
	// ErrUnknownTask the task name is not one of the supported tasks (see AllTasks).
	ErrUnknownTask = errors.New("unknown task")
	// ErrNoModel no model card is registered for the requested task/model combination.
	ErrNoModel = errors.New("no model for task")
	// ErrBadInput the input is empty or its kind doesn't match the task's modality.
	ErrBadInput = errors.New("bad input")
	// ErrBadOption a run option has a value outside its valid range.
	ErrBadOption = errors.New("bad option")
)
