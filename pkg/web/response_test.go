package web

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestGetErrorMsg(t *testing.T) {
	type request struct {
		ID   int32  `validate:"required,min=1"`
		Page int32  `validate:"max=100"`
		From string `validate:"omitempty,datetime=2006-01-02"`
	}

	testCases := []struct {
		name string
		req  request
		want string
	}{
		{name: "Required", req: request{}, want: "ID is required"},
		{name: "Min", req: request{ID: -1}, want: "ID must be at least 1 characters long"},
		{name: "Max", req: request{ID: 1, Page: 101}, want: "Page must be at most 100 characters long"},
		{name: "Datetime", req: request{ID: 1, From: "01/02/2026"}, want: "From must be a date formatted as 2006-01-02"},
	}

	v := validator.New()

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var ve validator.ValidationErrors
			if err := v.Struct(tc.req); !errors.As(err, &ve) {
				t.Fatalf("v.Struct(%+v) returned error: %v, want validation errors", tc.req, err)
			}

			got := ve[0].Field() + GetErrorMsg(ve[0])
			if got != tc.want {
				t.Errorf("GetErrorMsg = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestError(t *testing.T) {
	got := Error(errors.New("boom"))
	if got.Error != "boom" || got.Data != nil {
		t.Errorf("Error(boom) = %+v", got)
	}
}
