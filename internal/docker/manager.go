package docker

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"

	"github.com/sarth-shah20/darp/internal/logging"
)

// ManagedLabel marks containers started by darp.
const ManagedLabel = "darp.managed"

// Manager handles all interactions with the Docker daemon.
type Manager struct {
	cli *client.Client
}

// NewManager creates a Docker client connected to the local daemon.
func NewManager() (*Manager, error) {
	// FromEnv honours DOCKER_HOST and friends, else the default unix socket
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Manager{cli: cli}, nil
}

// Close releases the underlying client.
func (m *Manager) Close() error {
	return m.cli.Close()
}

// Ping reports whether the daemon answers.
func (m *Manager) Ping(ctx context.Context) error {
	if _, err := m.cli.Ping(ctx); err != nil {
		return fmt.Errorf("docker daemon unreachable: %w", err)
	}
	return nil
}

// EnsureImage pulls imageName unless it is already present locally.
func (m *Manager) EnsureImage(ctx context.Context, imageName string) error {
	if _, _, err := m.cli.ImageInspectWithRaw(ctx, imageName); err == nil {
		return nil
	} else if !client.IsErrNotFound(err) {
		return fmt.Errorf("failed to inspect image %s: %w", imageName, err)
	}

	logging.FromContext(ctx).Info(ctx, "pulling image", "image", imageName)
	reader, err := m.cli.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", imageName, err)
	}
	defer reader.Close()

	// the pull only completes once the progress stream is drained
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return fmt.Errorf("error reading pull output: %w", err)
	}
	return nil
}

// ContainerSpec describes a detached container.
type ContainerSpec struct {
	Name   string
	Image  string
	Ports  []string // "80:80", "53:53/udp"
	Binds  []string // "host:container"
	CapAdd []string
}

// StartContainer creates and starts a detached, auto-removed container.
func (m *Manager) StartContainer(ctx context.Context, spec ContainerSpec) error {
	portBindings := nat.PortMap{}
	exposedPorts := nat.PortSet{}

	for _, p := range spec.Ports {
		mappings, err := nat.ParsePortSpec(p)
		if err != nil {
			return fmt.Errorf("invalid port mapping %s: %w", p, err)
		}
		for _, pm := range mappings {
			exposedPorts[pm.Port] = struct{}{}
			portBindings[pm.Port] = append(portBindings[pm.Port], nat.PortBinding{
				HostIP:   "0.0.0.0",
				HostPort: pm.Binding.HostPort,
			})
		}
	}

	cfg := &container.Config{
		Image:        spec.Image,
		Labels:       map[string]string{ManagedLabel: "true"},
		ExposedPorts: exposedPorts,
	}
	hostCfg := &container.HostConfig{
		PortBindings: portBindings,
		Binds:        spec.Binds,
		CapAdd:       spec.CapAdd,
		AutoRemove:   true,
	}

	if err := m.EnsureImage(ctx, spec.Image); err != nil {
		return err
	}

	// a stopped leftover with the same name blocks creation
	_ = m.cli.ContainerRemove(ctx, spec.Name, container.RemoveOptions{Force: true})

	resp, err := m.cli.ContainerCreate(ctx, cfg, hostCfg, nil, nil, spec.Name)
	if err != nil {
		return fmt.Errorf("failed to create container %s: %w", spec.Name, err)
	}
	if err := m.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start container %s: %w", spec.Name, err)
	}
	return nil
}

// RestartContainer restarts a running container by name.
func (m *Manager) RestartContainer(ctx context.Context, name string) error {
	if err := m.cli.ContainerRestart(ctx, name, container.StopOptions{}); err != nil {
		return fmt.Errorf("failed to restart %s: %w", name, err)
	}
	return nil
}

// StopContainer stops a container by name.
func (m *Manager) StopContainer(ctx context.Context, name string) error {
	if err := m.cli.ContainerStop(ctx, name, container.StopOptions{}); err != nil {
		return fmt.Errorf("failed to stop %s: %w", name, err)
	}
	return nil
}

// IsRunning reports whether a container with exactly this name is running.
func (m *Manager) IsRunning(ctx context.Context, name string) (bool, error) {
	list, err := m.ListRunning(ctx, name)
	if err != nil {
		return false, err
	}
	for _, c := range list {
		if ContainerName(c) == name {
			return true, nil
		}
	}
	return false, nil
}

// ListRunning returns running containers whose name contains filter.
func (m *Manager) ListRunning(ctx context.Context, filter string) ([]types.Container, error) {
	args := filters.NewArgs()
	if filter != "" {
		args.Add("name", filter)
	}
	list, err := m.cli.ContainerList(ctx, container.ListOptions{Filters: args})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	return list, nil
}

// ContainerName strips the leading slash the API puts on names.
func ContainerName(c types.Container) string {
	if len(c.Names) == 0 {
		return ""
	}
	return strings.TrimPrefix(c.Names[0], "/")
}

// FormatPorts renders the published ports of a container.
func FormatPorts(c types.Container) string {
	var parts []string
	for _, p := range c.Ports {
		if p.PublicPort != 0 {
			parts = append(parts, fmt.Sprintf("%d->%d/%s", p.PublicPort, p.PrivatePort, p.Type))
		}
	}
	return strings.Join(parts, ", ")
}
