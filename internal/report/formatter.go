// Package report renders sanitized resource changes as plan-style diff
// blocks and assembles them into the final report document.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tfjson "github.com/hashicorp/terraform-json"
	"github.com/yourusername/plananalyzer/internal/diff"
	"github.com/yourusername/plananalyzer/internal/redact"
)

// FormattedBlock is the rendered form of one sanitized resource change.
type FormattedBlock struct {
	Address string
	Action  string
	Symbol  string
	Body    string
	DocURL  string
}

// ChangeFormatter renders sanitized changes as Terraform-plan-style text.
// Output is deterministic: the same change always renders byte-identically.
type ChangeFormatter struct {
	docs *DocResolver
}

// NewChangeFormatter creates a formatter using the given doc resolver.
func NewChangeFormatter(docs *DocResolver) *ChangeFormatter {
	if docs == nil {
		docs = NewDocResolver(nil)
	}
	return &ChangeFormatter{docs: docs}
}

// Format renders a sanitized change. Read-only and otherwise unclassified
// changes produce an empty body; callers skip those blocks.
func (f *ChangeFormatter) Format(sc *redact.SanitizedChange) FormattedBlock {
	block := FormattedBlock{
		Address: sc.Address,
		DocURL:  f.docs.ResourceDocURL(sc.ProviderName, sc.Type),
	}

	action, symbol := classifyActions(sc.Actions)
	if action == "" {
		return block
	}
	block.Action = action
	block.Symbol = symbol

	displayType, displayName := splitAddress(sc.Address, sc.Type)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s %s\n", sc.Address, action)
	fmt.Fprintf(&sb, "%s resource %q %q {\n", symbol, displayType, displayName)

	before, _ := sc.Before.(map[string]interface{})
	after, _ := sc.After.(map[string]interface{})

	switch symbol {
	case "+":
		writeAllAttributes(&sb, after, "+")
	case "-":
		writeAllAttributes(&sb, before, "-")
	default:
		writeUpdatedAttributes(&sb, before, after)
	}

	sb.WriteString("}")
	block.Body = sb.String()
	return block
}

func classifyActions(actions tfjson.Actions) (string, string) {
	switch {
	case actions.Update():
		return "will be updated in-place", "~"
	case actions.Create():
		return "will be created", "+"
	case actions.Delete():
		return "will be destroyed", "-"
	case actions.Replace():
		return "must be replaced", "-/+"
	default:
		return "", ""
	}
}

func splitAddress(address, resourceType string) (string, string) {
	parts := strings.SplitN(address, ".", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return resourceType, address
}

// writeAllAttributes renders every non-null attribute with a single-action
// marker, id and name first for reviewer familiarity.
func writeAllAttributes(sb *strings.Builder, attrs map[string]interface{}, symbol string) {
	written := map[string]bool{}
	for _, key := range []string{"id", "name"} {
		if val, ok := attrs[key]; ok && val != nil {
			fmt.Fprintf(sb, "  %s %s = %s\n", symbol, key, FormatValue(val))
			written[key] = true
		}
	}
	for _, key := range sortedKeys(attrs) {
		if written[key] || attrs[key] == nil {
			continue
		}
		fmt.Fprintf(sb, "  %s %s = %s\n", symbol, key, FormatValue(attrs[key]))
	}
}

// writeUpdatedAttributes renders only the attributes that changed, with
// old -> new transitions, and notes how many attributes were hidden.
func writeUpdatedAttributes(sb *strings.Builder, before, after map[string]interface{}) {
	changes := diff.Compare(before, after)

	touched := map[string]bool{}
	for _, c := range changes {
		top := c.Path
		if idx := strings.IndexAny(top, ".["); idx > 0 {
			top = top[:idx]
		}
		touched[top] = true
	}

	for _, c := range changes {
		switch c.Type {
		case diff.TypeAdded:
			fmt.Fprintf(sb, "  + %s = %s\n", c.Path, FormatValue(c.After))
		case diff.TypeRemoved:
			fmt.Fprintf(sb, "  - %s = %s\n", c.Path, FormatValue(c.Before))
		default:
			fmt.Fprintf(sb, "  ~ %s = %s -> %s\n", c.Path, FormatValue(c.Before), FormatValue(c.After))
		}
	}

	total := map[string]bool{}
	for k := range before {
		total[k] = true
	}
	for k := range after {
		total[k] = true
	}
	if hidden := len(total) - len(touched); hidden > 0 {
		fmt.Fprintf(sb, "  # (%d unchanged attributes hidden)\n", hidden)
	}
}

// FormatValue renders a value the way Terraform's own plan output does:
// quoted strings, lowercase booleans, null, and braced containers with
// sorted keys.
func FormatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []interface{}:
		return formatList(v)
	case map[string]interface{}:
		return formatMap(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatList(items []interface{}) string {
	if len(items) == 0 {
		return "[]"
	}
	formatted := make([]string, len(items))
	for i, item := range items {
		formatted[i] = FormatValue(item)
	}
	joined := strings.Join(formatted, ", ")
	if len(joined) > 60 {
		return "[\n    " + strings.Join(formatted, ",\n    ") + "\n  ]"
	}
	return "[" + joined + "]"
}

func formatMap(m map[string]interface{}) string {
	if len(m) == 0 {
		return "{}"
	}
	formatted := make([]string, 0, len(m))
	for _, key := range sortedKeys(m) {
		formatted = append(formatted, fmt.Sprintf("%s = %s", key, FormatValue(m[key])))
	}
	joined := strings.Join(formatted, ", ")
	if len(joined) > 60 {
		return "{\n    " + strings.Join(formatted, ",\n    ") + "\n  }"
	}
	return "{ " + joined + " }"
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
