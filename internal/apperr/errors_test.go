package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_HTTPStatus(t *testing.T) {
	testCases := []struct {
		err    *Error
		status int
		code   string
	}{
		{Unauthenticated("no token"), http.StatusUnauthorized, "UNAUTHENTICATED"},
		{Forbidden("nope"), http.StatusForbidden, "FORBIDDEN"},
		{NotFound("machine not found"), http.StatusNotFound, "NOT_FOUND"},
		{Validation(FieldError{Field: "name", Code: "required"}), http.StatusBadRequest, "VALIDATION_FAILED"},
		{Internal(errors.New("boom")), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range testCases {
		t.Run(tc.code, func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.Kind.HTTPStatus())
			assert.Equal(t, tc.code, tc.err.Kind.String())
		})
	}
}

func TestAs_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading machine: %w", NotFound("machine not found"))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, appErr.Kind)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestInternal_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestFieldErrors(t *testing.T) {
	var fe FieldErrors
	assert.NoError(t, fe.Err())

	fe.Add("serial_number", "unique", "already exists")
	fe.Add("shipment_date", "required", "")
	assert.True(t, fe.Has("serial_number"))
	assert.False(t, fe.Has("client"))

	err := fe.Err()
	require.Error(t, err)
	appErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindValidation, appErr.Kind)
	assert.Len(t, appErr.Fields, 2)
}

func TestAddValidatorErrors_UsesJSONNames(t *testing.T) {
	type input struct {
		Name *string `json:"name" validate:"required,max=3"`
		Date *string `json:"order_date" validate:"omitempty,datetime=2006-01-02"`
	}
	v := NewValidator()
	long, badDate := "abcdef", "15/01/2024"

	var fe FieldErrors
	err := fe.AddValidatorErrors(v.Struct(input{Name: &long, Date: &badDate}))
	require.NoError(t, err)

	require.Len(t, fe, 2)
	assert.Equal(t, "name", fe[0].Field)
	assert.Equal(t, "max", fe[0].Code)
	assert.Equal(t, "order_date", fe[1].Field)
	assert.Equal(t, "datetime", fe[1].Code)
}

func TestAddValidatorErrors_PassesOtherErrors(t *testing.T) {
	var fe FieldErrors
	other := errors.New("not a validation error")
	assert.Equal(t, other, fe.AddValidatorErrors(other))
	assert.Empty(t, fe)
}

func TestRender(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		want       Response
	}{
		{
			name:       "validation keeps fields",
			err:        Validation(FieldError{Field: "serial_number", Code: "unique"}),
			wantStatus: http.StatusBadRequest,
			want: Response{
				Error:   "VALIDATION_FAILED",
				Message: "validation failed",
				Fields:  []FieldError{{Field: "serial_number", Code: "unique"}},
			},
		},
		{
			name:       "wrapped forbidden",
			err:        fmt.Errorf("handler: %w", Forbidden("machine is not accessible")),
			wantStatus: http.StatusForbidden,
			want:       Response{Error: "FORBIDDEN", Message: "machine is not accessible"},
		},
		{
			name:       "plain error is hidden",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			want:       Response{Error: "INTERNAL_ERROR", Message: "internal error"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := Render(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.want, body)
		})
	}
}
