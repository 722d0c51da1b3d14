package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pyrig.dev/pkg/pyrig/internal/adapter"
	m "pyrig.dev/pkg/pyrig/internal/model"
)

func TestTest_PackageProject(t *testing.T) {
	f := newWorkflowFixture(t)
	writeFile(t, filepath.Join(f.dir, "setup.py"), "")
	writeFile(t, filepath.Join(f.dir, "build", "lib", "x.py"), "")

	buildPath := filepath.Join(f.dir, "build")
	toxConfig := filepath.Join(f.workDir, ".pyrig", "tox.ini")
	discovery := filepath.Join(f.workDir, ".pyrig", "discovery.py")

	f.ui.On("DisplayNotice", mock.Anything, "- Deleting build directory %s", m.Path(buildPath)).Once()
	f.ui.On("DisplayBanner", mock.Anything, "Launching tox tests").Once()
	f.ui.On("DisplayRunSummary", mock.Anything, mock.MatchedBy(func(r m.RunRecord) bool {
		return r.Mode == m.ModePackage && r.ExitCode == 0
	})).Once()

	f.runner.On("Run", mock.Anything, mock.MatchedBy(func(inv adapter.Invocation) bool {
		return inv.Name == "tox" &&
			inv.Dir == f.dir &&
			slices.Equal(inv.Args, []string{"-c", toxConfig, "-e", "pkg"})
	})).Return(adapter.RunResult{Duration: time.Second}, nil).Run(func(args mock.Arguments) {
		inv := args.Get(1).(adapter.Invocation)
		assert.Contains(t, inv.Env, "REPO_DIRPATH="+f.dir)
		assert.Contains(t, inv.Env, "TOX_WORKDIR="+f.workDir)
		assert.Contains(t, inv.Env, "DISCOVERY_FPATH="+discovery)
		assert.Contains(t, inv.Env, "PATH=/usr/bin")
		assert.NotContains(t, inv.Env, "TOX_WORKDIR=/stale")

		_, err := os.Stat(buildPath)
		assert.True(t, os.IsNotExist(err), "build directory must be gone before tox starts")
	})

	require.NoError(t, f.w.Test(context.Background(), TestArgs{ProjectArgs: f.project()}))

	assert.FileExists(t, toxConfig)
	assert.FileExists(t, discovery)

	record, found, err := f.store.LoadRun(m.Path(filepath.Join(f.workDir, ".pyrig", "last_run.yaml")))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, m.ModePackage, record.Mode)
	assert.Equal(t, m.Path(toxConfig), record.ToxConfig)
	assert.Equal(t, time.Second, record.Duration)
}

func TestTest_RequirementsProjectWithExtra(t *testing.T) {
	f := newWorkflowFixture(t)
	writeFile(t, filepath.Join(f.dir, "requirements.txt"), "requests\n")

	f.ui.On("DisplayBanner", mock.Anything, "Launching tox tests").Once()
	f.ui.On("DisplayRunSummary", mock.Anything, mock.Anything).Once()

	f.runner.On("Run", mock.Anything, mock.MatchedBy(func(inv adapter.Invocation) bool {
		return inv.Name == "/opt/tox/bin/tox" &&
			len(inv.Args) == 5 &&
			inv.Args[3] == "req" &&
			inv.Args[4] == "t_example"
	})).Return(adapter.RunResult{}, nil)

	err := f.w.Test(context.Background(), TestArgs{
		ProjectArgs: f.project(),
		Command:     "/opt/tox/bin/tox",
		Extra:       "t_example",
	})
	require.NoError(t, err)
}

func TestTest_ForcedModeAndCustomConfig(t *testing.T) {
	f := newWorkflowFixture(t)
	custom := filepath.Join(f.dir, "ci", "tox.ini")

	f.ui.On("DisplayBanner", mock.Anything, mock.Anything).Once()
	f.ui.On("DisplayRunSummary", mock.Anything, mock.Anything).Once()
	f.runner.On("Run", mock.Anything, mock.MatchedBy(func(inv adapter.Invocation) bool {
		return slices.Equal(inv.Args, []string{"-c", custom, "-e", "pkg"})
	})).Return(adapter.RunResult{}, nil)

	err := f.w.Test(context.Background(), TestArgs{
		ProjectArgs: f.project(),
		ToxConfig:   m.Path(custom),
		Mode:        m.ModePackage,
	})
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(f.workDir, ".pyrig", "tox.ini"))
	assert.FileExists(t, filepath.Join(f.workDir, ".pyrig", "discovery.py"))
}

func TestTest_KeepBuild(t *testing.T) {
	f := newWorkflowFixture(t)
	writeFile(t, filepath.Join(f.dir, "build", "keep.txt"), "")

	f.ui.On("DisplayBanner", mock.Anything, mock.Anything).Once()
	f.ui.On("DisplayRunSummary", mock.Anything, mock.Anything).Once()
	f.runner.On("Run", mock.Anything, mock.Anything).Return(adapter.RunResult{}, nil)

	require.NoError(t, f.w.Test(context.Background(), TestArgs{ProjectArgs: f.project(), KeepBuild: true}))

	assert.DirExists(t, filepath.Join(f.dir, "build"))
}

func TestTest_InvalidMode(t *testing.T) {
	f := newWorkflowFixture(t)

	err := f.w.Test(context.Background(), TestArgs{ProjectArgs: f.project(), Mode: "wheel"})
	require.ErrorIs(t, err, m.ErrInvalidMode)
	f.runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestTest_FailingSuiteKeepsRecord(t *testing.T) {
	f := newWorkflowFixture(t)

	f.ui.On("DisplayBanner", mock.Anything, mock.Anything).Once()
	f.ui.On("DisplayRunSummary", mock.Anything, mock.MatchedBy(func(r m.RunRecord) bool {
		return r.ExitCode == 2
	})).Once()
	f.runner.On("Run", mock.Anything, mock.Anything).Return(adapter.RunResult{ExitCode: 2}, nil)

	err := f.w.Test(context.Background(), TestArgs{ProjectArgs: f.project()})

	var exitErr *m.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)

	record, found, err := f.store.LoadRun(m.Path(filepath.Join(f.workDir, ".pyrig", "last_run.yaml")))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, record.ExitCode)
	assert.Equal(t, m.ModeRequirements, record.Mode)
}

func TestTest_RunnerErrorSkipsRecord(t *testing.T) {
	f := newWorkflowFixture(t)

	f.ui.On("DisplayBanner", mock.Anything, mock.Anything).Once()
	f.runner.On("Run", mock.Anything, mock.Anything).Return(adapter.RunResult{}, errors.New("tox not found"))

	err := f.w.Test(context.Background(), TestArgs{ProjectArgs: f.project()})
	require.Error(t, err)

	assert.NoFileExists(t, filepath.Join(f.workDir, ".pyrig", "last_run.yaml"))
}

func TestTest_MissingProjectDir(t *testing.T) {
	f := newWorkflowFixture(t)

	err := f.w.Test(context.Background(), TestArgs{
		ProjectArgs: ProjectArgs{Dir: m.Path(filepath.Join(f.dir, "missing")), WorkDirRoot: m.Path(f.root)},
	})
	require.Error(t, err)
}
