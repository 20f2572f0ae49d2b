package storage

import (
	"context"
	"testing"

	"github.com/Veraticus/gradebook/internal/gradebook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNilContext)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name    string
		str     string
		wantErr bool
	}{
		{name: "valid string", str: "gradebook_data.txt"},
		{name: "empty string", str: "", wantErr: true},
		{name: "whitespace only", str: "   ", wantErr: true},
		{name: "string with spaces", str: "  data.txt  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, "path")
			if tt.wantErr {
				require.ErrorIs(t, err, ErrEmptyString)
				assert.Contains(t, err.Error(), "path")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBook(t *testing.T) {
	assert.ErrorIs(t, validateBook(nil), ErrNilParameter)

	book, err := gradebook.NewWeighted(nil, nil)
	require.NoError(t, err)
	assert.NoError(t, validateBook(book))
}
