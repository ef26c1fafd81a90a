package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Tag
		ok   bool
	}{
		{
			name: "case id tag",
			raw:  "testrailid=10",
			want: Tag{Key: TagCaseID, Value: "10"},
			ok:   true,
		},
		{
			name: "defects tag",
			raw:  "defects=BUG-1, BUG-2",
			want: Tag{Key: TagDefects, Value: "BUG-1, BUG-2"},
			ok:   true,
		},
		{
			name: "references tag",
			raw:  "references=REF-3",
			want: Tag{Key: TagReferences, Value: "REF-3"},
			ok:   true,
		},
		{
			name: "value containing equals splits on first only",
			raw:  "testrailid=10=extra",
			want: Tag{Key: TagCaseID, Value: "10=extra"},
			ok:   true,
		},
		{
			name: "empty value",
			raw:  "testrailid=",
			want: Tag{Key: TagCaseID, Value: ""},
			ok:   true,
		},
		{
			name: "unrecognized key",
			raw:  "owner=alice",
			ok:   false,
		},
		{
			name: "no separator",
			raw:  "smoke",
			ok:   false,
		},
		{
			name: "key is case sensitive",
			raw:  "TestRailID=10",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTag(tt.raw)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCaseTag(t *testing.T) {
	assert.Equal(t, "testrailid=42", CaseTag(42))
}

func TestTestCaseID(t *testing.T) {
	test := &Test{
		Name: "Autotest name 1",
		Tags: []string{"smoke", "defects=BUG-1", "testrailid=10"},
	}
	id, ok := test.CaseID()
	require.True(t, ok)
	assert.Equal(t, "10", id)

	untagged := &Test{Name: "Autotest name 2", Tags: []string{"smoke"}}
	_, ok = untagged.CaseID()
	assert.False(t, ok)

	empty := &Test{Name: "Autotest name 3", Tags: []string{"testrailid="}}
	_, ok = empty.CaseID()
	assert.False(t, ok)
}
