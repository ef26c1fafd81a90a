package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuiteTestCount(t *testing.T) {
	tree := &Suite{
		Name:  "Root",
		Tests: []*Test{{Name: "A"}},
		Suites: []*Suite{
			{
				Name:  "Child",
				Tests: []*Test{{Name: "B"}, {Name: "C"}},
				Suites: []*Suite{
					{Name: "Grandchild", Tests: []*Test{{Name: "D"}}},
				},
			},
			{Name: "Empty"},
		},
	}

	assert.Equal(t, 4, tree.TestCount())
	assert.Equal(t, 3, tree.Suites[0].TestCount())
	assert.Equal(t, 0, tree.Suites[1].TestCount())
}

func TestSuiteWalk(t *testing.T) {
	tree := &Suite{
		Name: "Root",
		Suites: []*Suite{
			{Name: "A", Suites: []*Suite{{Name: "A1"}}},
			{Name: "B"},
		},
	}

	var order []string
	tree.Walk(func(s *Suite) bool {
		order = append(order, s.Name)
		return true
	})
	assert.Equal(t, []string{"Root", "A", "A1", "B"}, order)

	order = nil
	tree.Walk(func(s *Suite) bool {
		order = append(order, s.Name)
		return s.Name != "A"
	})
	assert.Equal(t, []string{"Root", "A"}, order)
}
