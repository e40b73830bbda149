// Package npmtest provides a stand-in package manager binary for tests. It
// is a POSIX shell script, so tests need neither Node.js nor network access.
package npmtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// ScriptDir is the directory, relative to the project, where the fake looks
// for "<script>.sh" when asked to run a script. Scripts run with sh in the
// project directory and receive the forwarded arguments.
const ScriptDir = "fake-scripts"

const script = `#!/bin/sh
printf '%%s\037' "$@" >> '%[1]s'
printf '\n' >> '%[1]s'
case "$1" in
--version)
	echo '%[2]s'
	exit 0
	;;
install)
	if [ -n '%[3]s' ]; then echo 'install failed' >&2; exit %[3]s; fi
	mkdir -p node_modules
	exit 0
	;;
run-script|run)
	name="$2"
	shift 2
	if [ -f "%[4]s/$name.sh" ]; then
		exec sh "%[4]s/$name.sh" "$@"
	fi
	exit 0
	;;
esac
echo "unknown command $1" >&2
exit 64
`

// Fake is a generated package manager binary.
type Fake struct {
	Binary  string
	LogPath string
}

// Options tune the fake.
type Options struct {
	Version         string // printed for --version, default 9.8.1
	InstallExitCode int    // non-zero makes install fail
}

// New writes a fake binary into a temporary directory.
func New(t *testing.T, opts Options) *Fake {
	t.Helper()
	if opts.Version == "" {
		opts.Version = "9.8.1"
	}
	installExit := ""
	if opts.InstallExitCode != 0 {
		installExit = fmt.Sprint(opts.InstallExitCode)
	}

	dir := t.TempDir()
	f := &Fake{
		Binary:  filepath.Join(dir, "fake-npm"),
		LogPath: filepath.Join(dir, "calls.log"),
	}
	body := fmt.Sprintf(script, f.LogPath, opts.Version, installExit, ScriptDir)
	require.NoError(t, os.WriteFile(f.Binary, []byte(body), 0755))
	return f
}

// Calls returns the argument lists of every invocation so far.
func (f *Fake) Calls(t *testing.T) [][]string {
	t.Helper()
	data, err := os.ReadFile(f.LogPath)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)

	var calls [][]string
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		args := strings.Split(line, "\037")
		calls = append(calls, args[:len(args)-1])
	}
	return calls
}

// WriteScript installs a fake script body under dir/ScriptDir/name.sh.
func WriteScript(t *testing.T, dir, name, body string) {
	t.Helper()
	p := filepath.Join(dir, ScriptDir, name+".sh")
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
}
