package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestExplainRosterError(t *testing.T) {
	plain := errors.New("disk full")

	tests := []struct {
		err  error
		name string
		want string
	}{
		{name: "not found", err: fmt.Errorf("%w: student 7", common.ErrNotFound), want: "Student with ID 7 not found!"},
		{name: "duplicate", err: fmt.Errorf("%w: student 7", common.ErrDuplicateEntry), want: "Student with ID 7 already exists!"},
		{name: "out of range", err: model.ValidateGrade(101), want: "Invalid grade. Please enter a grade between 0 and 100."},
		{name: "invalid name", err: model.ValidateName("Smith, John"), want: "Student name cannot contain commas or line breaks!"},
		{name: "other", err: plain, want: "disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExplainRosterError(7, tt.err)
			assert.ErrorIs(t, got, tt.err)
			assert.Equal(t, tt.want, common.UserMessage(got))
		})
	}

	assert.NoError(t, ExplainRosterError(7, nil))
	assert.Same(t, plain, ExplainRosterError(7, plain))
}
