package domain

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pyrig.dev/pkg/pyrig/internal/adapter"
	adaptermocks "pyrig.dev/pkg/pyrig/internal/adapter/mocks"
	controllermocks "pyrig.dev/pkg/pyrig/internal/controller/mocks"
	m "pyrig.dev/pkg/pyrig/internal/model"
)

type workflowFixture struct {
	w       *workflow
	runner  *adaptermocks.MockToolRunnerAdapter
	ui      *controllermocks.MockUI
	store   *adapter.YAMLRunStore
	dir     string
	root    string
	workDir string
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()

	runner := adaptermocks.NewMockToolRunnerAdapter(t)
	ui := controllermocks.NewMockUI(t)
	store := adapter.NewRunStore()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	runner.On("LookPath", mock.Anything).Return(func(name string) string { return "/usr/bin/" + name }, nil).Maybe()
	ui.On("Stdout").Return(stdout).Maybe()
	ui.On("Stderr").Return(stderr).Maybe()

	wf, ok := NewWorkflow(adapter.NewLocalProjectFSAdapter(), runner, adapter.NewTOMLPyprojectReader(), store, ui).(*workflow)
	require.True(t, ok)

	wf.environ = func() []string {
		return []string{"PATH=/usr/bin", "TOX_WORKDIR=/stale", "HOME=/home/dev"}
	}

	dir := filepath.Join(t.TempDir(), "my-lib")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	root := t.TempDir()

	return &workflowFixture{
		w:       wf,
		runner:  runner,
		ui:      ui,
		store:   store,
		dir:     dir,
		root:    root,
		workDir: filepath.Join(root, "my-lib"),
		stdout:  stdout,
		stderr:  stderr,
	}
}

func (f *workflowFixture) project() ProjectArgs {
	return ProjectArgs{Dir: m.Path(f.dir), WorkDirRoot: m.Path(f.root)}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
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
