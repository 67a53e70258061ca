package report

import "strings"

// defaultDocURLs maps provider registry names to documentation base URLs.
// The table is data, not logic: adding a provider is an entry here (or a
// config override), nothing else.
var defaultDocURLs = map[string]string{
	"registry.terraform.io/hashicorp/aws":             "https://registry.terraform.io/providers/hashicorp/aws/latest/docs/resources/",
	"registry.terraform.io/hashicorp/google":          "https://registry.terraform.io/providers/hashicorp/google/latest/docs/resources/",
	"registry.terraform.io/hashicorp/azurerm":         "https://registry.terraform.io/providers/hashicorp/azurerm/latest/docs/resources/",
	"registry.terraform.io/hashicorp/kubernetes":      "https://registry.terraform.io/providers/hashicorp/kubernetes/latest/docs/resources/",
	"registry.terraform.io/hashicorp/helm":            "https://registry.terraform.io/providers/hashicorp/helm/latest/docs/resources/",
	"registry.terraform.io/hashicorp/fastly":          "https://registry.terraform.io/providers/fastly/fastly/latest/docs/resources/",
	"registry.terraform.io/newrelic/newrelic":         "https://registry.terraform.io/providers/newrelic/newrelic/latest/docs/resources/",
	"registry.terraform.io/digitalocean/digitalocean": "https://registry.terraform.io/providers/digitalocean/digitalocean/latest/docs/resources/",
	"registry.terraform.io/cloudflare/cloudflare":     "https://registry.terraform.io/providers/cloudflare/cloudflare/latest/docs/resources/",
	"registry.terraform.io/datadog/datadog":           "https://registry.terraform.io/providers/datadog/datadog/latest/docs/resources/",
}

// DocResolver maps a resource change's provider to a documentation URL.
// Lookups try the full provider registry name first, then fall back to the
// resource type's prefix (the segment before the first underscore), so
// plans from mirrored or unqualified providers still resolve.
type DocResolver struct {
	byProvider map[string]string
	byPrefix   map[string]string
}

// NewDocResolver creates a resolver over the built-in provider table,
// with optional per-provider overrides (keyed either by full registry name
// or by short prefix).
func NewDocResolver(overrides map[string]string) *DocResolver {
	r := &DocResolver{
		byProvider: make(map[string]string, len(defaultDocURLs)),
		byPrefix:   make(map[string]string, len(defaultDocURLs)),
	}
	for name, base := range defaultDocURLs {
		r.add(name, base)
	}
	for name, base := range overrides {
		r.add(name, base)
	}
	return r
}

func (r *DocResolver) add(name, base string) {
	if strings.Contains(name, "/") {
		r.byProvider[name] = base
		// registry.terraform.io/hashicorp/aws -> aws
		if idx := strings.LastIndex(name, "/"); idx >= 0 {
			r.byPrefix[name[idx+1:]] = base
		}
		return
	}
	r.byPrefix[name] = base
}

// ResourceDocURL returns the documentation URL for a resource type, or an
// empty string when the provider is unknown. Unknown providers must not
// break analysis; the caller omits the annotation.
func (r *DocResolver) ResourceDocURL(providerName, resourceType string) string {
	base := r.byProvider[providerName]
	if base == "" {
		if idx := strings.Index(resourceType, "_"); idx > 0 {
			base = r.byPrefix[resourceType[:idx]]
		}
	}
	if base == "" {
		return ""
	}
	return base + strings.ReplaceAll(resourceType, "_", "-")
}
