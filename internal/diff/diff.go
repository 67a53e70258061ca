// Package diff computes attribute-level differences between the before and
// after value trees of a resource change.
package diff

import (
	"fmt"
	"reflect"
	"sort"
)

// ChangeType represents the kind of difference found at a path.
type ChangeType string

const (
	// TypeAdded indicates an attribute present only in the after tree.
	TypeAdded ChangeType = "ADDED"
	// TypeRemoved indicates an attribute present only in the before tree.
	TypeRemoved ChangeType = "REMOVED"
	// TypeModified indicates an attribute present in both trees with
	// different values.
	TypeModified ChangeType = "MODIFIED"
)

// Change represents a single attribute-level difference.
type Change struct {
	Type   ChangeType  `json:"type"`
	Path   string      `json:"path"`
	Before interface{} `json:"before,omitempty"`
	After  interface{} `json:"after,omitempty"`
}

// Compare walks two mapping trees and reports their differences in
// deterministic sorted-key order. Either tree may be nil.
func Compare(before, after map[string]interface{}) []Change {
	var changes []Change
	compareMaps("", before, after, &changes)
	return changes
}

func compareMaps(prefix string, before, after map[string]interface{}, changes *[]Change) {
	keys := make(map[string]struct{}, len(before)+len(after))
	for k := range before {
		keys[k] = struct{}{}
	}
	for k := range after {
		keys[k] = struct{}{}
	}

	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for _, key := range sorted {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		beforeVal, inBefore := before[key]
		afterVal, inAfter := after[key]

		switch {
		case !inBefore:
			*changes = append(*changes, Change{Type: TypeAdded, Path: path, After: afterVal})
		case !inAfter:
			*changes = append(*changes, Change{Type: TypeRemoved, Path: path, Before: beforeVal})
		default:
			compareValues(path, beforeVal, afterVal, changes)
		}
	}
}

func compareValues(path string, before, after interface{}, changes *[]Change) {
	if reflect.DeepEqual(before, after) {
		return
	}

	beforeMap, beforeIsMap := before.(map[string]interface{})
	afterMap, afterIsMap := after.(map[string]interface{})
	if beforeIsMap && afterIsMap {
		compareMaps(path, beforeMap, afterMap, changes)
		return
	}

	beforeList, beforeIsList := before.([]interface{})
	afterList, afterIsList := after.([]interface{})
	if beforeIsList && afterIsList && len(beforeList) == len(afterList) {
		for i := range beforeList {
			compareValues(fmt.Sprintf("%s[%d]", path, i), beforeList[i], afterList[i], changes)
		}
		return
	}

	*changes = append(*changes, Change{Type: TypeModified, Path: path, Before: before, After: after})
}
