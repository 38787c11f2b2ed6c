package config

import "strings"

// Engines accepted by SetEngine.
var Engines = []string{"podman", "docker"}

// SetEngine selects the container engine.
func (c *Config) SetEngine(name string) error {
	lc := strings.ToLower(strings.TrimSpace(name))
	for _, e := range Engines {
		if lc == e {
			c.Engine = stringPtr(lc)
			return nil
		}
	}
	return invalidInput("engine", name, "engine must be 'podman' or 'docker'")
}

// SetPodmanMachine records the podman VM that must be running.
func (c *Config) SetPodmanMachine(name string) error {
	if strings.TrimSpace(name) == "" {
		return invalidInput("podman_machine", name, "podman machine name must not be empty")
	}
	c.PodmanMachine = stringPtr(name)
	return nil
}

// UnsetPodmanMachine clears the podman VM name.
func (c *Config) UnsetPodmanMachine() {
	c.PodmanMachine = nil
}

// SetURLsInHosts parses value with ParseBool and stores it.
func (c *Config) SetURLsInHosts(value string) (bool, error) {
	v, err := ParseBool(value)
	if err != nil {
		return false, err
	}
	c.URLsInHosts = &v
	return v, nil
}

// ParseBool accepts TRUE/FALSE/yes/no/y/n/on/off/1/0 in any case.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on":
		return true, nil
	case "false", "0", "no", "n", "off":
		return false, nil
	}
	return false, invalidInput("bool", s, "invalid boolean value: %s (expected TRUE/FALSE/yes/no/1/0)", s)
}
