package engine

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"github.com/sarth-shah20/darp/internal/config"
	"github.com/sarth-shah20/darp/internal/docker"
)

type podmanRuntime struct {
	machine string
	exec    Commander
}

func (r *podmanRuntime) Kind() Kind { return KindPodman }

func (r *podmanRuntime) Close() error { return nil }

// RequireReady checks that the configured podman machine is running.
func (r *podmanRuntime) RequireReady(ctx context.Context) error {
	out, err := r.exec.Output(ctx, "podman", "machine", "list", "--format", "{{.Name}} {{.Running}}")
	if err != nil {
		return config.IOError("engine", "podman", err, "failed to run 'podman machine list'")
	}
	if machineRunning(out, r.machine) {
		return nil
	}
	return config.Precondition("engine", r.machine,
		"Podman machine '%s' appears to be down (podman machine start %s)", r.machine, r.machine)
}

// machineRunning scans "name running" lines; the default machine carries a trailing '*'.
func machineRunning(list []byte, machine string) bool {
	sc := bufio.NewScanner(bytes.NewReader(list))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 {
			continue
		}
		if strings.TrimRight(fields[0], "*") == machine && strings.EqualFold(fields[1], "true") {
			return true
		}
	}
	return false
}

func (r *podmanRuntime) names(ctx context.Context) ([]string, error) {
	out, err := r.exec.Output(ctx, "podman", "ps", "--format", "{{.Names}}")
	if err != nil {
		return nil, config.IOError("engine", "podman", err, "failed to list containers")
	}
	return strings.Fields(string(out)), nil
}

func (r *podmanRuntime) IsRunning(ctx context.Context, name string) (bool, error) {
	names, err := r.names(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *podmanRuntime) StartDetached(ctx context.Context, spec docker.ContainerSpec) error {
	_, err := r.exec.Output(ctx, "podman", DetachedArgs(spec)...)
	if err != nil {
		return config.IOError("container", spec.Name, err, "failed to start %s", spec.Name)
	}
	return nil
}

// DetachedArgs renders spec as a "run -d --rm" command line.
func DetachedArgs(spec docker.ContainerSpec) []string {
	args := []string{"run", "-d", "--rm", "--name", spec.Name}
	for _, p := range spec.Ports {
		args = append(args, "-p", p)
	}
	for _, b := range spec.Binds {
		args = append(args, "-v", b)
	}
	for _, c := range spec.CapAdd {
		args = append(args, "--cap-add="+c)
	}
	return append(args, spec.Image)
}

func (r *podmanRuntime) Restart(ctx context.Context, name string) error {
	if _, err := r.exec.Output(ctx, "podman", "restart", name); err != nil {
		return config.IOError("container", name, err, "failed to restart %s", name)
	}
	return nil
}

func (r *podmanRuntime) Stop(ctx context.Context, name string) error {
	if _, err := r.exec.Output(ctx, "podman", "stop", name); err != nil {
		return config.IOError("container", name, err, "failed to stop %s", name)
	}
	return nil
}

func (r *podmanRuntime) ListRunning(ctx context.Context) ([]Container, error) {
	out, err := r.exec.Output(ctx, "podman", "ps", "--format", "{{.Names}}\t{{.Image}}\t{{.Status}}\t{{.Ports}}")
	if err != nil {
		return nil, config.IOError("engine", "podman", err, "failed to list containers")
	}
	var list []Container
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		f := strings.Split(sc.Text(), "\t")
		if len(f) < 4 || f[0] == "" {
			continue
		}
		list = append(list, Container{Name: f[0], Image: f[1], Status: f[2], Ports: f[3]})
	}
	return list, nil
}
