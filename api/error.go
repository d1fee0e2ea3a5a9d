package api

import "fmt"

type ValidationError struct {
	Errors []string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Errors)
}

type NotFoundError struct {
	Kind string
	Id   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Id)
}

type PreconditionError struct {
	Message string
}

func (e PreconditionError) Error() string {
	return e.Message
}
