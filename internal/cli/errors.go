package cli

import (
	"errors"
	"fmt"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
)

// ExplainRosterError attaches the user-facing message for a roster error
// about student id. Errors without one are returned unchanged.
func ExplainRosterError(id int, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrNotFound):
		return common.NewUserError(fmt.Sprintf("Student with ID %d not found!", id), err)
	case errors.Is(err, common.ErrDuplicateEntry):
		return common.NewUserError(fmt.Sprintf("Student with ID %d already exists!", id), err)
	case errors.Is(err, common.ErrOutOfRange):
		return common.NewUserError("Invalid grade. Please enter a grade between 0 and 100.", err)
	case errors.Is(err, model.ErrInvalidName):
		return common.NewUserError("Student name cannot contain commas or line breaks!", err)
	default:
		return err
	}
}
