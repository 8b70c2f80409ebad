package main

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// withMemFS points cli at a fresh in-memory filesystem for the duration
// of one test, restoring the previous one afterward.
func withMemFS(t *testing.T) afero.Fs {
	t.Helper()
	prev := cli.fs
	mem := afero.NewMemMapFs()
	cli.fs = mem
	cli.log = logrus.New()
	t.Cleanup(func() { cli.fs = prev })
	return mem
}

func TestCheckCmdCleanFile(t *testing.T) {
	fs := withMemFS(t)
	path := "/m.nif"
	require.NoError(t, afero.WriteFile(fs, path, []byte(`(.nif26)(proc :a.0.m (x))(.index (x a.0.m +8))`), 0o644))

	checkCmd.Run(checkCmd, []string{path})
}

func TestWriteCmdProducesIndexedFile(t *testing.T) {
	fs := withMemFS(t)
	path := "/m.nif"
	require.NoError(t, afero.WriteFile(fs, path, []byte(`(.nif26)(proc :a.0.m (x))`), 0o644))

	writeCmd.Run(writeCmd, []string{path})

	out, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	require.Contains(t, string(out), ".index")
	require.Contains(t, string(out), ".indexat")

	checkCmd.Run(checkCmd, []string{path})
}

func TestWriteCmdNoIndexFlag(t *testing.T) {
	fs := withMemFS(t)
	path := "/m.nif"
	require.NoError(t, afero.WriteFile(fs, path, []byte(`(.nif26)(x)`), 0o644))

	writeNoIndex = true
	defer func() { writeNoIndex = false }()
	writeCmd.Run(writeCmd, []string{path})

	out, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	require.NotContains(t, string(out), ".index")
}

func TestEncodeCmdSingleSymbol(t *testing.T) {
	fs := withMemFS(t)
	path := "/m.nif"
	require.NoError(t, afero.WriteFile(fs, path, []byte(`(.nif26)(proc :a.0.m (x))`), 0o644))

	encodeSymbol = "a.0.m"
	defer func() { encodeSymbol = "" }()
	encodeCmd.Run(encodeCmd, []string{path})
}

func TestDumpCmdRuns(t *testing.T) {
	fs := withMemFS(t)
	path := "/m.nif"
	require.NoError(t, afero.WriteFile(fs, path, []byte(`(.nif26)(.vendor "acme")(stmts (call print "hi"))`), 0o644))

	dumpCmd.Run(dumpCmd, []string{path})
}

func TestGraphCmdReportsDeadCode(t *testing.T) {
	fs := withMemFS(t)
	path := "/m.nif"
	require.NoError(t, afero.WriteFile(fs, path, []byte(`(.nif26)(proc :unused.0.m (x))`), 0o644))

	graphCmd.Run(graphCmd, []string{path})
}
