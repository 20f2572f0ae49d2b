package main

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
	"github.com/go-playground/validator/v10"
)

const notBlankTag = "notblank"

// recordValidator checks imported roster entries before they reach the
// gradebook so a bad entry is reported by field name.
var recordValidator = newRecordValidator()

func newRecordValidator() *validator.Validate {
	v := validator.New()

	// Report yaml field names, which is what roster files use.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		if str, ok := fl.Field().Interface().(string); ok {
			return strings.TrimSpace(str) != ""
		}
		return false
	})

	return v
}

// validateRecord reports the first problem with rec, wrapped in
// common.ErrInvalidInput.
func validateRecord(rec model.StudentRecord) error {
	err := recordValidator.Struct(rec)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: student %d: %w", common.ErrInvalidInput, rec.ID, err)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case notBlankTag:
		return fmt.Errorf("%w: student %d: %s cannot be blank", common.ErrInvalidInput, rec.ID, fe.Namespace())
	case "gte", "lte":
		return fmt.Errorf("%w: student %d: %s is %v, grades must be between %.0f and %.0f",
			common.ErrOutOfRange, rec.ID, fe.Namespace(), fe.Value(), model.MinGrade, model.MaxGrade)
	default:
		return fmt.Errorf("%w: student %d: %s failed %q", common.ErrInvalidInput, rec.ID, fe.Namespace(), fe.Tag())
	}
}
