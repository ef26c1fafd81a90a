package types

import (
	"fmt"
	"strings"
)

// TagKey identifies the recognized TestRail tag keys on a test node.
type TagKey string

const (
	TagCaseID     TagKey = "testrailid"
	TagDefects    TagKey = "defects"
	TagReferences TagKey = "references"
)

// Tag is a parsed key=value binding from a test node's tag list.
type Tag struct {
	Key   TagKey
	Value string
}

// String renders the tag back into its wire form.
func (t Tag) String() string {
	return fmt.Sprintf("%s=%s", t.Key, t.Value)
}

// ParseTag splits a raw tag on its first '=' and maps the key to one of
// the recognized TagKeys. Tags without a '=' or with an unrecognized key
// are not TestRail bindings and return ok=false.
func ParseTag(raw string) (Tag, bool) {
	key, value, found := strings.Cut(raw, "=")
	if !found {
		return Tag{}, false
	}
	switch TagKey(key) {
	case TagCaseID, TagDefects, TagReferences:
		return Tag{Key: TagKey(key), Value: value}, true
	}
	return Tag{}, false
}

// CaseTag formats the canonical tag for a TestRail case id.
func CaseTag(caseID int64) string {
	return Tag{Key: TagCaseID, Value: fmt.Sprintf("%d", caseID)}.String()
}
