package engine

import (
	"context"

	"github.com/sarth-shah20/darp/internal/config"
	"github.com/sarth-shah20/darp/internal/docker"
)

// Container is a running container as reported by the engine.
type Container struct {
	Name   string
	Image  string
	Status string
	Ports  string
}

// Runtime is the set of engine operations darp relies on.
type Runtime interface {
	Kind() Kind
	RequireReady(ctx context.Context) error
	IsRunning(ctx context.Context, name string) (bool, error)
	StartDetached(ctx context.Context, spec docker.ContainerSpec) error
	Restart(ctx context.Context, name string) error
	Stop(ctx context.Context, name string) error
	ListRunning(ctx context.Context) ([]Container, error)
	// Close releases engine connections.
	Close() error
}

// DefaultPodmanMachine is checked when no podman_machine is configured.
const DefaultPodmanMachine = "podman-machine-default"

// New returns the Runtime for the engine configured in cfg.
func New(cfg *config.Config) (Runtime, error) {
	switch KindFromConfig(cfg) {
	case KindDocker:
		mgr, err := docker.NewManager()
		if err != nil {
			return nil, err
		}
		return &dockerRuntime{mgr: mgr}, nil
	case KindPodman:
		machine := DefaultPodmanMachine
		if cfg.PodmanMachine != nil && *cfg.PodmanMachine != "" {
			machine = *cfg.PodmanMachine
		}
		return &podmanRuntime{machine: machine, exec: ExecCommander{}}, nil
	}
	return noneRuntime{}, nil
}

type noneRuntime struct{}

func (noneRuntime) Kind() Kind { return KindNone }

func (noneRuntime) RequireReady(context.Context) error {
	return config.Precondition("engine", "", "No container engine is configured.\nUse 'darp config set engine podman' or 'darp config set engine docker'.")
}

func (noneRuntime) IsRunning(context.Context, string) (bool, error) { return false, nil }

func (noneRuntime) StartDetached(context.Context, docker.ContainerSpec) error { return nil }

func (noneRuntime) Restart(context.Context, string) error { return nil }

func (noneRuntime) Stop(context.Context, string) error { return nil }

func (noneRuntime) ListRunning(context.Context) ([]Container, error) { return nil, nil }

func (noneRuntime) Close() error { return nil }

type dockerRuntime struct {
	mgr *docker.Manager
}

func (r *dockerRuntime) Kind() Kind { return KindDocker }

func (r *dockerRuntime) Close() error { return r.mgr.Close() }

func (r *dockerRuntime) RequireReady(ctx context.Context) error {
	if err := r.mgr.Ping(ctx); err != nil {
		return config.Precondition("engine", "docker", "Docker does not appear to be running (docker info): %v", err)
	}
	return nil
}

func (r *dockerRuntime) IsRunning(ctx context.Context, name string) (bool, error) {
	return r.mgr.IsRunning(ctx, name)
}

func (r *dockerRuntime) StartDetached(ctx context.Context, spec docker.ContainerSpec) error {
	return r.mgr.StartContainer(ctx, spec)
}

func (r *dockerRuntime) Restart(ctx context.Context, name string) error {
	return r.mgr.RestartContainer(ctx, name)
}

func (r *dockerRuntime) Stop(ctx context.Context, name string) error {
	return r.mgr.StopContainer(ctx, name)
}

func (r *dockerRuntime) ListRunning(ctx context.Context) ([]Container, error) {
	list, err := r.mgr.ListRunning(ctx, "")
	if err != nil {
		return nil, err
	}
	out := make([]Container, 0, len(list))
	for _, c := range list {
		out = append(out, Container{
			Name:   docker.ContainerName(c),
			Image:  c.Image,
			Status: c.Status,
			Ports:  docker.FormatPorts(c),
		})
	}
	return out, nil
}
