// Package tfsource gathers Terraform source files as supplementary context
// for analysis, scrubbing sensitive assignments before anything leaves the
// process.
package tfsource

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/yourusername/plananalyzer/internal/logger"
	"github.com/yourusername/plananalyzer/internal/redact"
	"github.com/zclconf/go-cty/cty"
)

// defaultIgnore excludes tool-managed and vendored trees from context
// gathering.
var defaultIgnore = []string{
	".git/**",
	".terraform/**",
	"**/.terraform/**",
	".terragrunt-cache/**",
	"**/.terragrunt-cache/**",
	"**/vendor/**",
	"**/node_modules/**",
}

// File is one gathered source file, already scrubbed.
type File struct {
	Path    string
	Content string
}

// Result carries the gathered files plus the counts callers need to report
// truncation: Discovered is how many files matched, Included how many were
// returned after the MaxFiles cap and read failures.
type Result struct {
	Files      []File
	Discovered int
	Included   int
}

// Options configures a Reader.
type Options struct {
	// MaxFiles caps how many files are included; zero means no cap.
	MaxFiles int
	// Skip disables context gathering entirely; Read returns an empty
	// result without touching the filesystem.
	Skip bool
	// Ignore adds glob patterns on top of the default ignore set.
	Ignore []string
}

// Reader enumerates and scrubs Terraform source files.
type Reader struct {
	matcher *redact.Matcher
	log     *logger.Logger
	opts    Options

	quotedAssign *regexp.Regexp
	bareAssign   *regexp.Regexp
}

// NewReader creates a reader that scrubs assignments whose attribute name
// matches the given sensitivity matcher.
func NewReader(matcher *redact.Matcher, log *logger.Logger, opts Options) *Reader {
	if matcher == nil {
		matcher = redact.NewDefaultMatcher()
	}
	if log == nil {
		log = logger.DefaultLogger
	}
	alternation := patternAlternation(matcher.Patterns())
	return &Reader{
		matcher: matcher,
		log:     log,
		opts:    opts,
		// Fallback scrubbing for files HCL cannot parse, mirroring the
		// attribute matcher: name fragment, optional suffix, assignment.
		quotedAssign: regexp.MustCompile(`(?i)(\w*(?:` + alternation + `)\w*\s*=\s*)"[^"]*"`),
		bareAssign:   regexp.MustCompile(`(?i)(\w*(?:` + alternation + `)\w*\s*=\s*)[^\s,"{}\[\]]+`),
	}
}

func patternAlternation(patterns []string) string {
	quoted := make([]string, len(patterns))
	for i, p := range patterns {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return strings.Join(quoted, "|")
}

// Read gathers .tf files under rootDir in lexical path order. Truncation by
// MaxFiles is deterministic across runs because the order is. Unreadable
// files are skipped with a warning and do not fail the run.
func (r *Reader) Read(rootDir string) (*Result, error) {
	if r.opts.Skip {
		return &Result{}, nil
	}

	paths, err := r.discover(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s for Terraform files: %v", rootDir, err)
	}

	result := &Result{Discovered: len(paths)}
	if len(paths) == 0 {
		r.log.Warn("No Terraform files found in %s", rootDir)
		return result, nil
	}

	if r.opts.MaxFiles > 0 && len(paths) > r.opts.MaxFiles {
		r.log.Warn("Limiting context to %d Terraform files (out of %d found)", r.opts.MaxFiles, len(paths))
		paths = paths[:r.opts.MaxFiles]
	}

	for _, rel := range paths {
		data, err := os.ReadFile(filepath.Join(rootDir, rel))
		if err != nil {
			r.log.Warn("Skipping unreadable Terraform file %s: %v", rel, err)
			continue
		}
		result.Files = append(result.Files, File{
			Path:    rel,
			Content: r.Scrub(rel, data),
		})
	}
	result.Included = len(result.Files)
	return result, nil
}

func (r *Reader) discover(rootDir string) ([]string, error) {
	patterns := append([]string{}, defaultIgnore...)
	patterns = append(patterns, r.opts.Ignore...)

	var paths []string
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(rootDir, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if ignored(rel, patterns) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(rel, ".tf") {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

func ignored(path string, patterns []string) bool {
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if ok, err := doublestar.Match(p, path); err == nil && ok {
			return true
		}
	}
	return false
}

// Scrub replaces literal values of sensitive-named attributes with the
// redaction marker. The file is parsed as HCL and the exact expression
// ranges spliced out; only statically known non-null literals are touched,
// since references like var.db_password carry no secret themselves. Files
// that do not parse fall back to regex scrubbing.
func (r *Reader) Scrub(filename string, src []byte) string {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if file == nil || diags.HasErrors() {
		return r.scrubRegex(string(src))
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return r.scrubRegex(string(src))
	}

	var spans []hcl.Range
	r.collectSensitiveExprs(body, &spans)
	if len(spans) == 0 {
		return string(src)
	}

	// Splice back to front so earlier byte offsets stay valid.
	sort.Slice(spans, func(i, j int) bool {
		return spans[i].Start.Byte > spans[j].Start.Byte
	})
	out := append([]byte(nil), src...)
	marker := []byte(`"` + redact.Marker + `"`)
	for _, span := range spans {
		if span.Start.Byte < 0 || span.End.Byte > len(out) || span.Start.Byte > span.End.Byte {
			continue
		}
		out = append(out[:span.Start.Byte], append(append([]byte(nil), marker...), out[span.End.Byte:]...)...)
	}
	return string(out)
}

func (r *Reader) collectSensitiveExprs(body *hclsyntax.Body, spans *[]hcl.Range) {
	for name, attr := range body.Attributes {
		if !r.matcher.Match(name) {
			continue
		}
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			// Not statically evaluable: a variable or resource
			// reference, which is safe to keep as-is.
			continue
		}
		if val.IsKnown() && !val.IsNull() && val.Type() != cty.DynamicPseudoType {
			*spans = append(*spans, attr.Expr.Range())
		}
	}
	for _, block := range body.Blocks {
		r.collectSensitiveExprs(block.Body, spans)
	}
}

func (r *Reader) scrubRegex(content string) string {
	content = r.quotedAssign.ReplaceAllString(content, `${1}"`+redact.Marker+`"`)
	content = r.bareAssign.ReplaceAllString(content, `${1}"`+redact.Marker+`"`)
	return content
}
