package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	prerun "github.com/peterservice-rnd/robotframework-testrail"
	"github.com/peterservice-rnd/robotframework-testrail/exitcodes"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "unknown status label is a config error",
			err:  &prerun.StatusLookupError{Label: "Bogus"},
			want: exitcodes.ConfigErr,
		},
		{
			name: "transient resolution failure",
			err:  prerun.NewResolveError(errors.New("connection refused")),
			want: exitcodes.Failure,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: exitcodes.Failure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
