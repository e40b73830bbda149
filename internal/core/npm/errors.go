package npm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrToolFailed indicates the package manager exited non-zero.
	ErrToolFailed = errors.New("package manager failed")

	// ErrUnknownScript indicates a script name missing from package.json.
	ErrUnknownScript = errors.New("unknown script")

	// ErrVersionMismatch indicates the installed package manager does not
	// satisfy the configured version constraint.
	ErrVersionMismatch = errors.New("package manager version mismatch")
)

// ToolError describes a failed package manager invocation.
type ToolError struct {
	Command  string
	Args     []string
	Dir      string
	ExitCode int
	Stderr   string
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s: %s %s exited with code %d", ErrToolFailed, e.Command, strings.Join(e.Args, " "), e.ExitCode)
	if tail := strings.TrimSpace(e.Stderr); tail != "" {
		msg += ": " + lastLine(tail)
	}
	return msg
}

// Is makes errors.Is(err, ErrToolFailed) work.
func (e *ToolError) Is(target error) bool {
	return target == ErrToolFailed
}

// UnknownScriptError names a script that package.json does not declare.
type UnknownScriptError struct {
	Script    string
	Available []string
}

func (e *UnknownScriptError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("%s %q: package.json declares no scripts", ErrUnknownScript, e.Script)
	}
	return fmt.Sprintf("%s %q (available: %s)", ErrUnknownScript, e.Script, strings.Join(e.Available, ", "))
}

// Is makes errors.Is(err, ErrUnknownScript) work.
func (e *UnknownScriptError) Is(target error) bool {
	return target == ErrUnknownScript
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
