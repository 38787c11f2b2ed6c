package engine

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"os/signal"
	"slices"
	"syscall"

	"github.com/sarth-shah20/darp/internal/config"
	"github.com/sarth-shah20/darp/internal/logging"
)

// RunSpec describes a foreground container for shell or serve.
type RunSpec struct {
	Name        string
	Image       string
	Binds       []string // "host:container"
	Ports       []string // "host:container"
	Platform    string
	Command     []string
	Interactive bool
}

// Args renders spec as an engine "run" command line for kind.
func (s RunSpec) Args(kind Kind) []string {
	args := []string{"run", "--rm"}
	if s.Interactive {
		args = append(args, "-it")
	}
	args = append(args, "--name", s.Name)
	for _, b := range s.Binds {
		args = append(args, "-v", b)
	}
	for _, p := range s.Ports {
		args = append(args, "-p", p)
	}
	args = append(args, kind.PlatformArgs(s.Platform)...)
	args = append(args, s.Image)
	return append(args, s.Command...)
}

// Run starts spec in the foreground with the terminal attached and restarts
// it when it exits with one of restartOn. An interrupt stops the container.
func Run(ctx context.Context, kind Kind, spec RunSpec, restartOn []int) error {
	bin := kind.Binary()
	if bin == "" {
		return noneRuntime{}.RequireReady(ctx)
	}
	logger := logging.FromContext(ctx)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigs:
			logger.Info(ctx, "stopping (interrupt)", "container", spec.Name)
			_ = exec.Command(bin, "stop", spec.Name).Run()
		case <-done:
		}
	}()

	for {
		cmd := exec.CommandContext(ctx, bin, spec.Args(kind)...)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		logger.Debug(ctx, "running container", "bin", bin, "args", cmd.Args[1:])
		err := cmd.Run()
		if err == nil {
			return nil
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return config.IOError("container", spec.Name, err, "failed to run %s", bin)
		}
		if slices.Contains(restartOn, exitErr.ExitCode()) {
			logger.Info(ctx, "restarting", "container", spec.Name, "code", exitErr.ExitCode())
			continue
		}
		// the container's own exit status is not a darp failure
		return nil
	}
}
