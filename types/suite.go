package types

// Test is a leaf node of the execution tree handed over by the host
// framework. Tags carry the TestRail bindings (see ParseTag).
type Test struct {
	Name string
	Tags []string
}

// CaseID returns the TestRail case id bound to this test via a
// "testrailid" tag, or false when no such tag is present.
func (t *Test) CaseID() (string, bool) {
	for _, raw := range t.Tags {
		tag, ok := ParseTag(raw)
		if ok && tag.Key == TagCaseID && tag.Value != "" {
			return tag.Value, true
		}
	}
	return "", false
}

// Suite is one node of the execution tree. The host framework walks the
// tree pre-order calling StartSuite and post-order calling EndSuite; the
// pre-run filter mutates Tests and Suites in place during that walk.
type Suite struct {
	Name   string
	Tests  []*Test
	Suites []*Suite

	// TopLevel marks the root of the execution tree. Diagnostics about
	// the run as a whole are attributed to this node.
	TopLevel bool
}

// TestCount returns the number of tests in this suite and all of its
// descendants.
func (s *Suite) TestCount() int {
	count := len(s.Tests)
	for _, child := range s.Suites {
		count += child.TestCount()
	}
	return count
}

// Walk traverses the suite tree pre-order, calling the visitor for each
// suite. Traversal stops when the visitor returns false.
func (s *Suite) Walk(visitor func(*Suite) bool) bool {
	if !visitor(s) {
		return false
	}
	for _, child := range s.Suites {
		if !child.Walk(visitor) {
			return false
		}
	}
	return true
}
