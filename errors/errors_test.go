package errors

import (
	"errors"
	"reflect"
	"testing"
)

func TestCast(t *testing.T) {
	type args struct {
		err error
	}
	tests := []struct {
		name   string
		args   args
		want   Error
		wantOK bool
	}{
		{
			name: "with rich error",
			args: args{
				err: Error{
					Code:    ErrBadRequest,
					Err:     nil,
					Message: "this was a bad request",
				},
			},
			want: Error{
				Code:    ErrBadRequest,
				Err:     nil,
				Message: "this was a bad request",
			},
			wantOK: true,
		},
		{
			name: "with rich error and original error",
			args: args{
				err: Error{
					Code:    ErrNotFound,
					Err:     errors.New("i am an error"),
					Message: "no event at this start",
				},
			},
			want: Error{
				Code:    ErrNotFound,
				Err:     errors.New("i am an error"),
				Message: "no event at this start",
			},
			wantOK: true,
		},
		{
			name: "with nil error",
			args: args{
				err: nil,
			},
			want: Error{
				Code:    ErrUnexpected,
				Err:     nil,
				Message: "unknown operation",
				Details: make(Details),
			},
			wantOK: false,
		},
		{
			name: "with simple error",
			args: args{
				err: errors.New("i am an error"),
			},
			want: Error{
				Code:    ErrUnexpected,
				Err:     errors.New("i am an error"),
				Message: "unknown operation",
				Details: make(Details),
			},
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, ok := Cast(tt.args.err); !reflect.DeepEqual(got, tt.want) || ok != tt.wantOK {
				t.Errorf("Cast() = %v, %v, want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	type args struct {
		err     error
		message string
		details Details
	}
	tests := []struct {
		name string
		args args
		want Error
	}{
		{
			name: "wrap rich error",
			args: args{
				err: Error{
					Code:    ErrNotFound,
					Message: "event not found",
					Details: Details{},
				},
				message: "delete event",
			},
			want: Error{
				Code:    ErrNotFound,
				Message: "delete event: event not found",
				Details: Details{},
			},
		},
		{
			name: "wrap simple error",
			args: args{
				err:     errors.New("disk on fire"),
				message: "persist schedule",
			},
			want: Error{
				Code:    ErrUnexpected,
				Err:     errors.New("disk on fire"),
				Message: "persist schedule",
				Details: Details{},
			},
		},
		{
			name: "wrap with colliding detail key",
			args: args{
				err: Error{
					Code:    ErrInternal,
					Message: "save failed",
					Details: Details{"filename": "a.json"},
				},
				message: "persist schedule",
				details: Details{"filename": "b.json"},
			},
			want: Error{
				Code:    ErrInternal,
				Message: "persist schedule: save failed",
				Details: Details{
					"filename":  "b.json",
					"_filename": "a.json",
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Cast(Wrap(tt.args.err, tt.args.message, tt.args.details))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Wrap() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlameUser(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "bad request",
			err:  NewInvalidInputError("duration must be positive", nil),
			want: true,
		},
		{
			name: "not found",
			err:  NewResourceNotFoundError("no event at this start", nil),
			want: true,
		},
		{
			name: "internal",
			err:  NewInternalError("broken schedule", nil),
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("whoops"),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BlameUser(tt.err); got != tt.want {
				t.Errorf("BlameUser() = %v, want %v", got, tt.want)
			}
		})
	}
}
