package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrToLabel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil error",
			err:  nil,
			want: "nil",
		},
		{
			name: "plain words",
			err:  errors.New("tag resolution failed"),
			want: "tag_resolution_failed",
		},
		{
			name: "strips punctuation and digits",
			err:  errors.New("get_tests: status 503!"),
			want: "gettests_status_",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errToLabel(tt.err))
		})
	}
}
