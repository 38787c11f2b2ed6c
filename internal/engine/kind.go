// Package engine wraps the container engine darp drives: docker, podman, or
// none when nothing is configured.
package engine

import (
	"strings"

	"github.com/sarth-shah20/darp/internal/config"
)

// Kind is the closed set of supported engines.
type Kind int

const (
	KindNone Kind = iota
	KindDocker
	KindPodman
)

// ParseKind maps an engine name to its Kind. Unknown names are KindNone.
func ParseKind(name string) Kind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "docker":
		return KindDocker
	case "podman":
		return KindPodman
	}
	return KindNone
}

// KindFromConfig returns the engine selected in cfg.
func KindFromConfig(cfg *config.Config) Kind {
	return ParseKind(cfg.EngineName())
}

func (k Kind) String() string {
	switch k {
	case KindDocker:
		return "docker"
	case KindPodman:
		return "podman"
	}
	return "none"
}

// Binary is the CLI executable of the engine, "" for KindNone.
func (k Kind) Binary() string {
	switch k {
	case KindDocker:
		return "docker"
	case KindPodman:
		return "podman"
	}
	return ""
}

// HostGateway is the hostname a container uses to reach the host.
func (k Kind) HostGateway() string {
	switch k {
	case KindDocker:
		return "host.docker.internal"
	case KindPodman:
		return "host.containers.internal"
	}
	return "localhost"
}

// PlatformArgs translates an "os/arch" platform into run flags.
// Podman takes --os/--arch; a value without a slash is an arch only.
func (k Kind) PlatformArgs(platform string) []string {
	if platform == "" {
		return nil
	}
	switch k {
	case KindDocker:
		return []string{"--platform", platform}
	case KindPodman:
		if osName, arch, ok := strings.Cut(platform, "/"); ok {
			return []string{"--os", osName, "--arch", strings.SplitN(arch, "/", 2)[0]}
		}
		return []string{"--arch", platform}
	}
	return nil
}
