package observability

import (
	"os"

	"golang.org/x/term"
)

// IsTTY checks if the given file descriptor is a terminal.
// This is useful for detecting whether the application is running
// in an interactive environment (e.g., a user's terminal) or
// in a non-interactive environment (e.g., CI/CD pipeline, piped output).
func IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// IsOutputTerminal checks if stderr is a TTY. Log output goes to stderr,
// so the "auto" log format resolves to human-readable output on a terminal
// and JSON when logs are collected by another process.
func IsOutputTerminal() bool {
	return IsTTY(os.Stderr.Fd())
}
