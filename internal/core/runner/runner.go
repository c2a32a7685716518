package runner

import (
	"bufio"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	apperrors "asset-rec/internal/platform/errors"
	"asset-rec/internal/platform/logx"
)

var ErrMissingBinary = errors.New("missing binary")

// HasBin checks if a binary with the given name is available in the system PATH.
// Returns true if the binary exists and is executable, false otherwise.
func HasBin(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// FindBin searches for the first available binary from the provided list of names.
// It returns the name of the first binary found in PATH and true, or empty string
// and false if none of the binaries are available.
func FindBin(names ...string) (string, bool) {
	for _, name := range names {
		if HasBin(name) {
			return name, true
		}
	}
	return "", false
}

// RunCommand executes an external command and streams its stdout line-by-line to
// the provided channel. The command respects context cancellation and will be
// terminated if the context is cancelled. Returns ErrMissingBinary if the binary
// is not found, or any other error encountered during execution.
func RunCommand(ctx context.Context, name string, args []string, out chan<- string) error {
	resolvedPath, lookErr := exec.LookPath(name)
	if lookErr != nil {
		logx.Tracef("lookup %s: %v", name, lookErr)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if resolvedPath != "" {
		cmd.Path = resolvedPath
	}

	logx.Debug("Ejecutando comando", logx.Fields{"name": name, "args": strings.Join(args, " ")})

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		logx.Error("Error stdout pipe", logx.Fields{"command": name, "error": err.Error()})
		return err
	}
	stderr, _ := cmd.StderrPipe()

	start := time.Now()

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			searchPaths := os.Getenv("PATH")
			return apperrors.NewMissingBinaryError(name, strings.Split(searchPaths, ":")...)
		}
		logx.Error("Error iniciar comando", logx.Fields{"command": name, "error": err.Error()})
		return err
	}

	// Escucha de stderr (debug), con buffer ampliado.
	go func() {
		sc := bufio.NewScanner(stderr)
		sc.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)
		for sc.Scan() {
			logx.Debug("Stderr", logx.Fields{"command": name, "output": sc.Text()})
		}
	}()

	// Lectura de stdout con buffer ampliado para líneas largas.
	sc := bufio.NewScanner(stdout)
	sc.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)

	lines := 0
readLoop:
	for sc.Scan() {
		line := sc.Text()
		// Envío "context-aware" para no quedar bloqueados si out no lee y el ctx se cancela.
		select {
		case <-ctx.Done():
			logx.Warn("Context cancelado", logx.Fields{"command": name})
			break readLoop
		case out <- line:
			lines++
		}
	}
	if err := sc.Err(); err != nil && ctx.Err() == nil {
		logx.Error("Error scan", logx.Fields{"command": name, "error": err.Error()})
		_ = cmd.Wait() // asegurar recolección
		return err
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			logx.Debug("Wait after context cancel", logx.Fields{"command": name, "error": err.Error()})
		} else {
			logx.Error("Error wait", logx.Fields{"command": name, "error": err.Error()})
			return err
		}
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	exitCode := 0
	if state := cmd.ProcessState; state != nil {
		exitCode = state.ExitCode()
	}
	logx.Trace("Comando completado", logx.Fields{
		"command":     name,
		"exit_code":   exitCode,
		"duration_ms": time.Since(start).Milliseconds(),
		"lines":       lines,
	})

	return nil
}

// CollectLines ejecuta un comando y devuelve su stdout como slice de líneas no
// vacías. Es la forma que consumen las fuentes: el streaming interno usa un
// canal con buffer para no bloquear el proceso hijo.
func CollectLines(ctx context.Context, name string, args []string) ([]string, error) {
	out := make(chan string, 256)
	errCh := make(chan error, 1)

	go func() {
		errCh <- RunCommand(ctx, name, args, out)
		close(out)
	}()

	var lines []string
	for line := range out {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines, <-errCh
}

// WithTimeout creates a new context with a timeout derived from the parent
// context. If seconds is less than or equal to 0, a default timeout of 60
// seconds is used. Returns the new context and a cancel function that should be
// called to release resources.
func WithTimeout(parent context.Context, seconds int) (context.Context, context.CancelFunc) {
	if seconds <= 0 {
		seconds = 60
	}
	return context.WithTimeout(parent, time.Duration(seconds)*time.Second)
}
