package pathval

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testRoot = "/workspace"

func validateErr(t *testing.T, candidate string) *ValidationError {
	t.Helper()
	_, err := Validate(candidate, testRoot)
	if err == nil {
		t.Fatalf("expected %q to be rejected", candidate)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	return ve
}

func TestTraversalRejected(t *testing.T) {
	// Containment holds regardless of what follows the attack token.
	cases := []struct {
		path string
		rule Rule
	}{
		{"memories/../secret.xml", RuleTraversal},
		{"memories/..", RuleTraversal},
		{"../memories/session-context/a.xml", RuleTraversal},
		{"memories\\..\\secret.xml", RuleTraversal},
		{"memories/%2e%2e/secret.xml", RuleEncoding},
		{"memories/%2E%2E/secret.xml", RuleEncoding},
		{"memories/%252e%252e/secret.xml", RuleEncoding},
		{"memories%2fsession-context%2fa.xml", RuleEncoding},
		{"memories%5csession-context%5ca.xml", RuleEncoding},
		{"memories%252fsession-context.xml", RuleEncoding},
		{"memories/session-context/a\x00.xml", RuleNulByte},
		{"memories/session-context/a%00.xml", RuleNulByte},
	}
	for _, tc := range cases {
		ve := validateErr(t, tc.path)
		if ve.Rule != tc.rule {
			t.Errorf("%q: expected rule %s, got %s (%s)", tc.path, tc.rule, ve.Rule, ve.Reason)
		}
	}
}

func TestTraversalReasonNamesRule(t *testing.T) {
	ve := validateErr(t, "memories/../secret.xml")
	if !strings.Contains(ve.Reason, "parent-directory") {
		t.Errorf("reason should mention parent-directory traversal, got %q", ve.Reason)
	}
}

func TestCategoryWhitelist(t *testing.T) {
	valid := []string{
		"session-context", "protocol-compliance", "agent-coordination",
		"development-patterns", "client-context", "project-knowledge",
	}
	for _, cat := range valid {
		res, err := Validate("memories/"+cat+"/note.xml", testRoot)
		if err != nil {
			t.Errorf("category %s: unexpected error: %v", cat, err)
			continue
		}
		if res.Category != cat {
			t.Errorf("expected category %s, got %s", cat, res.Category)
		}
		if res.RelPath != cat+"/note.xml" {
			t.Errorf("expected rel path %s/note.xml, got %s", cat, res.RelPath)
		}
	}

	for _, cat := range []string{"scratch", "archives", "Session-Context", "sessions"} {
		ve := validateErr(t, "memories/"+cat+"/note.xml")
		if ve.Rule != RuleCategory {
			t.Errorf("category %s: expected rule %s, got %s", cat, RuleCategory, ve.Rule)
		}
		if !strings.Contains(ve.Reason, cat) {
			t.Errorf("reason should name the invalid category %q, got %q", cat, ve.Reason)
		}
		if !strings.Contains(ve.Reason, "session-context") {
			t.Errorf("reason should list valid categories, got %q", ve.Reason)
		}
	}
}

func TestExtensionEnforced(t *testing.T) {
	base := "memories/session-context/current"
	for _, ext := range []string{".txt", ".json", ""} {
		ve := validateErr(t, base+ext)
		if ve.Rule != RuleExtension {
			t.Errorf("%s: expected rule %s, got %s", ext, RuleExtension, ve.Rule)
		}
	}

	// Round trip: restoring .xml makes it pass, and re-validation of the
	// same string is stable either way.
	for i := 0; i < 2; i++ {
		if _, err := Validate(base+".xml", testRoot); err != nil {
			t.Fatalf("valid path rejected on pass %d: %v", i+1, err)
		}
		if _, err := Validate(base+".txt", testRoot); err == nil {
			t.Fatalf("invalid path accepted on pass %d", i+1)
		}
	}
}

func TestAbsoluteEscapeRejected(t *testing.T) {
	ve := validateErr(t, "/etc/passwd.xml")
	if ve.Rule != RuleEscape {
		t.Errorf("expected rule %s, got %s", RuleEscape, ve.Rule)
	}
}

func TestNormalization(t *testing.T) {
	res, err := Validate("  memories/session-context/current.xml  ", testRoot)
	if err != nil {
		t.Fatalf("whitespace-padded path rejected: %v", err)
	}
	want := filepath.Join(testRoot, "memories", "session-context", "current.xml")
	if res.AbsPath != want {
		t.Errorf("expected %s, got %s", want, res.AbsPath)
	}
}

func TestValidateFileSize(t *testing.T) {
	dir := t.TempDir()

	// Missing file: size 0, valid (pre-creation check).
	res, err := ValidateFileSize(filepath.Join(dir, "missing.xml"))
	if err != nil {
		t.Fatalf("missing file should be valid: %v", err)
	}
	if res.Size != 0 {
		t.Errorf("expected size 0, got %d", res.Size)
	}

	small := filepath.Join(dir, "small.xml")
	os.WriteFile(small, make([]byte, 1024), 0o644)
	if _, err := ValidateFileSize(small); err != nil {
		t.Errorf("1 KiB file should be valid: %v", err)
	}

	// 60 KiB file violates the 50 KiB ceiling.
	big := filepath.Join(dir, "big.xml")
	os.WriteFile(big, make([]byte, 61440), 0o644)
	_, err = ValidateFileSize(big)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Rule != RuleOversize {
		t.Fatalf("expected oversize rejection, got %v", err)
	}
	if !strings.Contains(ve.Reason, "61440") || !strings.Contains(ve.Reason, "51200") {
		t.Errorf("reason should report actual and maximum size, got %q", ve.Reason)
	}
}
