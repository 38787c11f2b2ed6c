package config

// Config represents the root of config.json
type Config struct {
	Engine        *string                 `json:"engine"`         // "podman" or "docker"
	PodmanMachine *string                 `json:"podman_machine"` // e.g. "podman-machine-default"
	Domains       map[string]*Domain      `json:"domains"`        // keyed by canonical location
	Environments  map[string]*Environment `json:"environments"`   // keyed by environment name
	URLsInHosts   *bool                   `json:"urls_in_hosts"`
}

// Domain is a registered directory whose immediate subdirectories are services.
type Domain struct {
	Name               string              `json:"name"`
	Services           map[string]*Service `json:"services"` // keyed by folder name
	DefaultEnvironment *string             `json:"default_environment"`
}

// Overrides holds the settings shared by services and environments. A nil
// field is unset; a non-nil empty map or slice is still "set" and shadows the
// environment tier during resolution.
type Overrides struct {
	HostPortMappings      map[string]string `json:"host_portmappings"` // host port -> container port
	Volumes               []Volume          `json:"volumes"`
	ServeCommand          *string           `json:"serve_command"`
	ImageRepository       *string           `json:"image_repository"`
	Platform              *string           `json:"platform"` // e.g. "linux/amd64"
	DefaultContainerImage *string           `json:"default_container_image"`
}

// Service is the per-folder override tier.
type Service struct {
	Overrides
}

// Environment is the named fallback tier beneath services.
type Environment struct {
	Overrides
}

// Volume maps a host path (which may contain {pwd} and {home}) into a container.
type Volume struct {
	Container string `json:"container"`
	Host      string `json:"host"`
}

// EngineName returns the configured engine or "" when unset.
func (c *Config) EngineName() string {
	if c.Engine == nil {
		return ""
	}
	return *c.Engine
}

// URLsInHostsEnabled reports whether deploy should mirror URLs into the system hosts file.
func (c *Config) URLsInHostsEnabled() bool {
	return c.URLsInHosts != nil && *c.URLsInHosts
}

func stringPtr(s string) *string { return &s }
