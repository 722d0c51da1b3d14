package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	domainmocks "pyrig.dev/pkg/pyrig/internal/domain/mocks"
)

// useMockWorkflow swaps the package workflow for a mock for the duration of t.
func useMockWorkflow(t *testing.T) *domainmocks.MockWorkflow {
	t.Helper()

	mockWorkflow := domainmocks.NewMockWorkflow(t)

	originalWorkflow := workflow
	workflow = mockWorkflow

	t.Cleanup(func() { workflow = originalWorkflow })

	return mockWorkflow
}

// executeSubcommand runs sub under a fresh root command, logging into a temp dir.
func executeSubcommand(t *testing.T, sub *cobra.Command, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	cmd.AddCommand(sub)

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--"+logFileFlagName, filepath.Join(t.TempDir(), "pyrig.log")))

	err := cmd.Execute()

	return out.String(), err
}

// chdir changes the working directory to dir for the duration of t and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatalf("restoring working directory: %v", err)
		}
	})
}
