// Package terraform parses Terraform plan JSON documents and extracts the
// resource changes worth analyzing.
package terraform

import (
	"encoding/json"
	"fmt"

	tfjson "github.com/hashicorp/terraform-json"
)

// Plan bundles the typed view of a plan with the raw decoded document. The
// raw tree is kept so a sanitized mirror of the full document can be
// written alongside the report.
type Plan struct {
	Parsed *tfjson.Plan
	Raw    map[string]interface{}
}

// ParsePlan decodes a Terraform plan JSON document. The document is decoded
// twice: once into the typed terraform-json model and once into a generic
// tree that preserves everything the typed model does not carry.
func ParsePlan(data []byte) (*Plan, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("plan document is empty")
	}

	var parsed tfjson.Plan
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse plan JSON: %v", err)
	}
	if err := parsed.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan document: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode plan document: %v", err)
	}

	return &Plan{Parsed: &parsed, Raw: raw}, nil
}

// ExtractChanges returns the plan's resource changes with no-ops removed,
// in document order. A plan without resource changes yields an empty slice,
// not an error. A change missing its address or type fails the whole run:
// the document is structurally untrustworthy, and a partial report would be
// worse than none.
func ExtractChanges(plan *tfjson.Plan) ([]*tfjson.ResourceChange, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan is nil")
	}

	var changes []*tfjson.ResourceChange
	for i, rc := range plan.ResourceChanges {
		if rc == nil {
			continue
		}
		if rc.Address == "" {
			return nil, fmt.Errorf("resource change at index %d is missing required field %q", i, "address")
		}
		if rc.Type == "" {
			return nil, fmt.Errorf("resource change %s is missing required field %q", rc.Address, "type")
		}
		if rc.Change == nil || len(rc.Change.Actions) == 0 {
			continue
		}
		if rc.Change.Actions.NoOp() {
			continue
		}
		changes = append(changes, rc)
	}
	return changes, nil
}
