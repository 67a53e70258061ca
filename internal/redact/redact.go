// Package redact produces sanitized copies of Terraform plan value trees.
//
// A value is redacted when either of two independent signals fires: the
// attribute name matches a sensitive-name pattern, or the plan's own
// before_sensitive/after_sensitive mask marks the path. The union is the
// safety invariant: a mask of false never overrides a name hit, and an
// unmatched name never overrides a mask hit.
package redact

import (
	"sort"

	tfjson "github.com/hashicorp/terraform-json"
)

const (
	// Marker replaces sensitive scalar values.
	Marker = "[REDACTED]"
	// ComplexMarker replaces sensitive container values wholesale, so
	// neither the structure nor the size of a secret blob leaks.
	ComplexMarker = "[REDACTED_COMPLEX_VALUE]"
)

// SanitizedChange is a resource change whose before/after trees are
// guaranteed free of sensitive values. The formatter and prompt composer
// accept only this type, so un-sanitized plan data cannot reach them.
type SanitizedChange struct {
	Address      string         `json:"address"`
	Type         string         `json:"type"`
	Name         string         `json:"name"`
	ProviderName string         `json:"provider_name"`
	Actions      tfjson.Actions `json:"actions"`
	Before       interface{}    `json:"before"`
	After        interface{}    `json:"after"`

	// SensitiveKeys lists the top-level attribute names the plan marked
	// sensitive in after_sensitive, for report metadata.
	SensitiveKeys []string `json:"sensitive_keys,omitempty"`
}

// Redactor sanitizes plan value trees. It never mutates its input; output
// trees are fresh copies even when nothing was redacted.
type Redactor struct {
	matcher *Matcher
}

// NewRedactor creates a redactor using the given name matcher.
func NewRedactor(matcher *Matcher) *Redactor {
	if matcher == nil {
		matcher = NewDefaultMatcher()
	}
	return &Redactor{matcher: matcher}
}

// SanitizeChange returns a sanitized copy of the resource change. The
// before tree is walked against before_sensitive and the after tree
// against after_sensitive; attribute names are checked at every mapping
// key regardless of the mask.
func (r *Redactor) SanitizeChange(rc *tfjson.ResourceChange) *SanitizedChange {
	sc := &SanitizedChange{
		Address:      rc.Address,
		Type:         rc.Type,
		Name:         rc.Name,
		ProviderName: rc.ProviderName,
	}
	if rc.Change == nil {
		return sc
	}
	sc.Actions = append(tfjson.Actions{}, rc.Change.Actions...)
	sc.Before = r.SanitizeValue(rc.Change.Before, rc.Change.BeforeSensitive)
	sc.After = r.SanitizeValue(rc.Change.After, rc.Change.AfterSensitive)
	sc.SensitiveKeys = topLevelSensitiveKeys(rc.Change.AfterSensitive)
	return sc
}

// SanitizeValue returns a sanitized deep copy of value. mask is the
// matching subtree of the plan's sensitivity mask; nil means no mask.
func (r *Redactor) SanitizeValue(value, mask interface{}) interface{} {
	if maskIsTrue(mask) {
		return redactValue(value)
	}

	switch v := value.(type) {
	case map[string]interface{}:
		// A mask of any other shape is advisory noise; treat as absent
		// and rely on the name matcher.
		maskMap, _ := mask.(map[string]interface{})
		out := make(map[string]interface{}, len(v))
		for key, child := range v {
			var childMask interface{}
			if maskMap != nil {
				childMask = maskMap[key]
			}
			if r.matcher.Match(key) || maskIsTrue(childMask) {
				out[key] = redactValue(child)
				continue
			}
			out[key] = r.SanitizeValue(child, childMask)
		}
		return out

	case []interface{}:
		maskList, _ := mask.([]interface{})
		out := make([]interface{}, len(v))
		for i, item := range v {
			var childMask interface{}
			if i < len(maskList) {
				childMask = maskList[i]
			}
			out[i] = r.SanitizeValue(item, childMask)
		}
		return out

	default:
		// Scalars copy by value.
		return value
	}
}

// SanitizePlan returns a sanitized structural mirror of an entire decoded
// plan document. Inside each resource change the before/after trees are
// walked against their masks; everywhere else only the name-pattern signal
// applies. The mask subtrees themselves are copied verbatim: they hold
// booleans, not values.
func (r *Redactor) SanitizePlan(doc interface{}) interface{} {
	top, ok := doc.(map[string]interface{})
	if !ok {
		return r.SanitizeValue(doc, nil)
	}

	out := make(map[string]interface{}, len(top))
	for key, val := range top {
		if key == "resource_changes" {
			out[key] = r.sanitizeResourceChanges(val)
			continue
		}
		out[key] = r.SanitizeValue(val, nil)
	}
	return out
}

func (r *Redactor) sanitizeResourceChanges(val interface{}) interface{} {
	entries, ok := val.([]interface{})
	if !ok {
		return r.SanitizeValue(val, nil)
	}

	out := make([]interface{}, len(entries))
	for i, entry := range entries {
		m, ok := entry.(map[string]interface{})
		if !ok {
			out[i] = r.SanitizeValue(entry, nil)
			continue
		}
		cp := make(map[string]interface{}, len(m))
		for key, v := range m {
			if key == "change" {
				cp[key] = r.sanitizeChangeBlock(v)
				continue
			}
			cp[key] = r.SanitizeValue(v, nil)
		}
		out[i] = cp
	}
	return out
}

func (r *Redactor) sanitizeChangeBlock(val interface{}) interface{} {
	change, ok := val.(map[string]interface{})
	if !ok {
		return r.SanitizeValue(val, nil)
	}

	out := make(map[string]interface{}, len(change))
	for key, v := range change {
		switch key {
		case "before":
			out[key] = r.SanitizeValue(v, change["before_sensitive"])
		case "after":
			out[key] = r.SanitizeValue(v, change["after_sensitive"])
		case "before_sensitive", "after_sensitive":
			out[key] = deepCopy(v)
		default:
			out[key] = r.SanitizeValue(v, nil)
		}
	}
	return out
}

// redactValue replaces an entire value with the appropriate marker. Null
// stays null: it carries no secret, and substituting the marker would
// misreport the change shape (e.g. a create has a null before).
func redactValue(value interface{}) interface{} {
	switch value.(type) {
	case nil:
		return nil
	case map[string]interface{}, []interface{}:
		return ComplexMarker
	default:
		return Marker
	}
}

func maskIsTrue(mask interface{}) bool {
	b, ok := mask.(bool)
	return ok && b
}

func topLevelSensitiveKeys(mask interface{}) []string {
	m, ok := mask.(map[string]interface{})
	if !ok || len(m) == 0 {
		return nil
	}
	var keys []string
	for key, v := range m {
		if maskIsTrue(v) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func deepCopy(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, child := range v {
			out[key] = deepCopy(child)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, child := range v {
			out[i] = deepCopy(child)
		}
		return out
	default:
		return v
	}
}
