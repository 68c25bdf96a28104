// Package pathval decides whether a candidate path is an admissible
// memory-file location. It is the security boundary for every read,
// write and delete the maintenance tools perform: nothing may touch a
// path that has not passed Validate.
package pathval

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/edelzer/memory-toolkit/internal/model"
)

// Rule identifies which validation rule rejected a path.
type Rule string

const (
	RuleTraversal Rule = "traversal"
	RuleEncoding  Rule = "encoding"
	RuleNulByte   Rule = "nul-byte"
	RuleEscape    Rule = "escape"
	RuleCategory  Rule = "category"
	RuleExtension Rule = "extension"
	RuleOversize  Rule = "oversize"
)

// ValidationError carries the exact rule and a human-readable reason.
// Callers and tests assert on the cause, never on a bare boolean.
type ValidationError struct {
	Rule   Rule
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid memory path %q: %s", e.Path, e.Reason)
}

// Result is the breakdown of a successfully validated path.
type Result struct {
	AbsPath  string // normalized absolute path
	RelPath  string // path relative to the memories root, slash-separated
	Category string
}

// attackPatterns are matched against the raw, un-normalized candidate
// before any decoding or cleaning. Encoded payloads must be caught here:
// a resolver that decodes after the trust decision would let them through.
var attackPatterns = []struct {
	pattern string
	rule    Rule
	reason  string
}{
	{"..", RuleTraversal, "parent-directory traversal (..)"},
	{"%2e%2e", RuleEncoding, "URL-encoded parent-directory traversal (%2e%2e)"},
	{"%2E%2E", RuleEncoding, "URL-encoded parent-directory traversal (%2E%2E)"},
	{"%252e", RuleEncoding, "double-encoded parent-directory traversal (%252e)"},
	{"%252E", RuleEncoding, "double-encoded parent-directory traversal (%252E)"},
	{"%2f", RuleEncoding, "URL-encoded path separator (%2f)"},
	{"%2F", RuleEncoding, "URL-encoded path separator (%2F)"},
	{"%5c", RuleEncoding, "URL-encoded backslash (%5c)"},
	{"%5C", RuleEncoding, "URL-encoded backslash (%5C)"},
	{"%252f", RuleEncoding, "double-encoded path separator (%252f)"},
	{"%255c", RuleEncoding, "double-encoded backslash (%255c)"},
	{"\x00", RuleNulByte, "NUL byte"},
	{"%00", RuleNulByte, "URL-encoded NUL byte (%00)"},
}

// Validate checks a candidate path against the workspace root and
// returns its normalized breakdown, or a *ValidationError naming the
// rule that rejected it. Checks run in order and short-circuit.
func Validate(candidate, workspaceRoot string) (*Result, error) {
	raw := candidate

	// 1. Attack-pattern pre-screen on the raw string.
	for _, p := range attackPatterns {
		if strings.Contains(raw, p.pattern) {
			return nil, &ValidationError{Rule: p.rule, Path: raw, Reason: p.reason}
		}
	}

	// 2. Normalize: trim, unify separators, absolutize against the root.
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "\\", "/")
	cleaned = filepath.FromSlash(cleaned)

	abs := cleaned
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(workspaceRoot, abs)
	}
	abs = filepath.Clean(abs)

	// 3. Containment: the path must stay under <root>/memories.
	memRoot := filepath.Join(workspaceRoot, model.MemoryDirName)
	rel, err := filepath.Rel(memRoot, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return nil, &ValidationError{
			Rule:   RuleEscape,
			Path:   raw,
			Reason: fmt.Sprintf("resolves outside the memories root (%s)", memRoot),
		}
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return nil, &ValidationError{Rule: RuleCategory, Path: raw, Reason: "path names the memories root, not a record"}
	}

	// 4. Category whitelist.
	segments := strings.Split(rel, "/")
	category := segments[0]
	if !model.ValidCategories[category] {
		return nil, &ValidationError{
			Rule:   RuleCategory,
			Path:   raw,
			Reason: fmt.Sprintf("invalid category %q, expected one of: %s", category, validCategoryList()),
		}
	}

	// 5. Extension.
	if !strings.HasSuffix(rel, ".xml") {
		return nil, &ValidationError{
			Rule:   RuleExtension,
			Path:   raw,
			Reason: fmt.Sprintf("extension must be .xml, got %q", filepath.Ext(rel)),
		}
	}

	return &Result{AbsPath: abs, RelPath: rel, Category: category}, nil
}

func validCategoryList() string {
	names := make([]string, 0, len(model.ValidCategories))
	for name := range model.ValidCategories {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
