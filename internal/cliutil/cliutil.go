// Package cliutil holds small flag-handling and logger setup helpers for
// the cmd/ker* binaries: password resolution (flag, env, terminal prompt),
// which no binary currently calls, and a redacting slog logger with an
// optional rotating file sink, which every binary installs.
package cliutil

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	kerlog "github.com/smnsjas/go-kerlab/internal/log"
	"golang.org/x/term"
)

// Password resolves a password from, in order: an explicit flag value,
// the KERLAB_PASSWORD environment variable, then an interactive prompt
// (non-echoing if stdin is a terminal, a plain line read otherwise).
func Password(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envPass := os.Getenv("KERLAB_PASSWORD"); envPass != "" {
		return envPass
	}

	fmt.Fprint(os.Stderr, "Password: ")
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		passBytes, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return ""
		}
		return string(passBytes)
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

// SetupLogger installs a redacting slog.Logger as the default logger,
// parsing level from a string flag value (empty disables logging below
// Warn). If logFile is non-empty, output goes to a rotating file instead
// of stderr.
func SetupLogger(level, logFile string) error {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn", "":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", level)
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: lvl}
	if logFile != "" {
		rf, err := kerlog.NewRotatingFile(logFile, 10*1024*1024, 3)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		handler = slog.NewJSONHandler(rf, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(kerlog.NewRedactingHandler(handler)))
	return nil
}
