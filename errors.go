package htmlrender

import (
	"context"
	"errors"
	"fmt"

	errorslib "github.com/goliatone/go-errors"
)

// ErrTemplateNotFound is returned when a template cannot be found.
type ErrTemplateNotFound struct {
	Name string
}

func (e ErrTemplateNotFound) Error() string {
	return fmt.Sprintf("template '%s' not found", e.Name)
}

// ErrTemplateExecution is returned when a template fails to parse or execute.
type ErrTemplateExecution struct {
	Name string
	Err  error
}

func (e ErrTemplateExecution) Error() string {
	return fmt.Sprintf("failed to execute template '%s': '%v'", e.Name, e.Err)
}

func (e ErrTemplateExecution) Unwrap() error {
	return e.Err
}

// ErrProviderNotRegistered is returned when no Provider is stored under Key.
type ErrProviderNotRegistered struct {
	Key string
}

func (e ErrProviderNotRegistered) Error() string {
	return fmt.Sprintf("no template provider registered under '%s'", e.Key)
}

// ErrUnknownEncoding is returned for a charset name that cannot be resolved.
type ErrUnknownEncoding struct {
	Name string
}

func (e ErrUnknownEncoding) Error() string {
	return fmt.Sprintf("unknown encoding '%s'", e.Name)
}

// IsTemplateNotFound reports whether err is, or wraps, an ErrTemplateNotFound.
func IsTemplateNotFound(err error) bool {
	var nf ErrTemplateNotFound
	return errors.As(err, &nf)
}

// IsProviderNotRegistered reports whether err is, or wraps, an ErrProviderNotRegistered.
func IsProviderNotRegistered(err error) bool {
	var nr ErrProviderNotRegistered
	return errors.As(err, &nr)
}

// AsGoError maps an error into a go-errors error.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	msg := err.Error()

	var (
		notFound      ErrTemplateNotFound
		notRegistered ErrProviderNotRegistered
		unknownEnc    ErrUnknownEncoding
		validation    *ValidationError
		execution     ErrTemplateExecution
	)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("timeout")
	case errors.Is(err, context.Canceled):
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("canceled")
	case errors.As(err, &notFound):
		return errorslib.New(msg, errorslib.CategoryNotFound).WithTextCode("template_not_found")
	case errors.As(err, &notRegistered):
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("provider_not_registered")
	case errors.As(err, &unknownEnc):
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("unknown_encoding")
	case errors.As(err, &validation):
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("template_validation")
	case errors.As(err, &execution):
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("template_execution")
	default:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("internal")
	}
}
