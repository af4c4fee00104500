package bank

import (
	"fmt"
)

// ValidationError represents a validation issue found in a bank file.
type ValidationError struct {
	Field   string
	Message string
	Index   int // -1 if not applicable
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("challenges[%d].%s: %s", e.Index, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func fileError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: err.Error(), Index: -1, Err: err}
}

// ValidateFile checks a bank file and returns every problem found.
// An empty result means the file loads cleanly.
func ValidateFile(path string) []*ValidationError {
	file, err := ReadFile(path)
	if err != nil {
		return []*ValidationError{fileError("file", err)}
	}
	return Validate(file)
}

// Validate checks a decoded bank file.
func Validate(file *BankFile) []*ValidationError {
	var errs []*ValidationError

	if file.Version == "" {
		errs = append(errs, &ValidationError{
			Field: "version", Message: "version is required", Index: -1,
		})
	}
	if len(file.Challenges) == 0 {
		errs = append(errs, &ValidationError{
			Field: "challenges", Message: "no challenges defined", Index: -1,
		})
	}

	ids := make(map[string]bool)
	for i, ch := range file.Challenges {
		if ch.ID == "" {
			errs = append(errs, &ValidationError{
				Field: "id", Message: "challenge ID is required", Index: i,
			})
		} else if ids[string(ch.ID)] {
			errs = append(errs, &ValidationError{
				Field: "id", Message: fmt.Sprintf("duplicate ID: %s", ch.ID), Index: i,
				Err: ErrDuplicateID,
			})
		} else {
			ids[string(ch.ID)] = true
		}

		if err := ch.Validate(); err != nil {
			for _, e := range flatten(err) {
				errs = append(errs, &ValidationError{
					Field: "definition", Message: e.Error(), Index: i, Err: e,
				})
			}
		}
	}

	return errs
}

// flatten splits an errors.Join result into its parts.
func flatten(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
