package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edelzer/memory-toolkit/internal/pathval"
)

// regressionCases is the fixed table behind validate-memory-path --test.
// Each case pins one rule of the validator so a regression is caught in
// the field without a Go toolchain.
var regressionCases = []struct {
	name  string
	path  string
	valid bool
}{
	{"valid session record", "memories/session-context/current.xml", true},
	{"valid pattern record", "memories/development-patterns/debugging-solutions.xml", true},
	{"valid project record", "memories/project-knowledge/demo.xml", true},
	{"parent traversal", "memories/../secret.xml", false},
	{"backslash traversal", "memories\\..\\secret.xml", false},
	{"encoded traversal", "memories/%2e%2e/secret.xml", false},
	{"double-encoded traversal", "memories/%252e%252e/secret.xml", false},
	{"encoded separator", "memories%2fsession-context%2fx.xml", false},
	{"encoded nul byte", "memories/session-context/a%00.xml", false},
	{"unknown category", "memories/scratch/notes.xml", false},
	{"wrong extension", "memories/session-context/current.txt", false},
	{"missing extension", "memories/session-context/current", false},
	{"absolute escape", "/etc/passwd", false},
}

// NewValidateCmd builds the validate-memory-path command.
// Exit codes: 0 valid, 1 invalid.
func NewValidateCmd() *cobra.Command {
	var runTests bool

	cmd := &cobra.Command{
		Use:   "validate-memory-path <path>",
		Short: "Check whether a path is an admissible memory-file location",
		Args: func(cmd *cobra.Command, args []string) error {
			if test, _ := cmd.Flags().GetBool("test"); test {
				return nil
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			root, err := workspaceRoot()
			if err != nil {
				return err
			}
			if runTests {
				return runRegressionSuite(cmd, root)
			}

			res, err := pathval.Validate(args[0], root)
			if err != nil {
				return fail(1, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ valid memory path\n")
			fmt.Fprintf(cmd.OutOrStdout(), "  normalized: %s\n", res.AbsPath)
			fmt.Fprintf(cmd.OutOrStdout(), "  relative:   %s\n", res.RelPath)
			fmt.Fprintf(cmd.OutOrStdout(), "  category:   %s\n", res.Category)
			return nil
		},
	}

	cmd.Flags().BoolVar(&runTests, "test", false, "Run the built-in validation regression suite")

	return cmd
}

func runRegressionSuite(cmd *cobra.Command, root string) error {
	failed := 0
	for _, tc := range regressionCases {
		_, err := pathval.Validate(tc.path, root)
		got := err == nil
		if got == tc.valid {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", tc.name)
			continue
		}
		failed++
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "✗ %s: expected valid, got: %v\n", tc.name, err)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "✗ %s: expected rejection of %q\n", tc.name, tc.path)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d/%d passed\n", len(regressionCases)-failed, len(regressionCases))
	if failed > 0 {
		return failf(1, "%d regression case(s) failed", failed)
	}
	return nil
}
