package config

import (
	"sort"
	"strings"
)

// EnvironmentNames returns the configured environment names in sorted order.
func (c *Config) EnvironmentNames() []string {
	names := make([]string, 0, len(c.Environments))
	for k, e := range c.Environments {
		if e != nil {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// Environment returns the named environment, if present.
func (c *Config) Environment(name string) (*Environment, bool) {
	e, ok := c.Environments[name]
	return e, ok && e != nil
}

// environment is the get-or-fail lookup used by remove and set operations.
func (c *Config) environment(name string) (*Environment, error) {
	e, ok := c.Environment(name)
	if !ok {
		if known := c.EnvironmentNames(); len(known) > 0 {
			return nil, notFound("environment", name, "environment '%s' does not exist (known: %s)", name, strings.Join(known, ", "))
		}
		return nil, notFound("environment", name, "environment '%s' does not exist", name)
	}
	return e, nil
}

// ensureEnvironment is the get-or-create lookup used by add operations.
func (c *Config) ensureEnvironment(name string) *Environment {
	if e, ok := c.Environment(name); ok {
		return e
	}
	if c.Environments == nil {
		c.Environments = make(map[string]*Environment)
	}
	e := &Environment{}
	c.Environments[name] = e
	return e
}

// AddEnvironment creates an empty environment.
func (c *Config) AddEnvironment(name string) error {
	if name == "" {
		return invalidInput("environment", name, "environment name must not be empty")
	}
	if _, ok := c.Environment(name); ok {
		return alreadyExists("environment", name, "environment '%s' already exists", name)
	}
	c.ensureEnvironment(name)
	return nil
}

// RemoveEnvironment deletes an environment. Domains that default to it keep
// the reference, which then resolves as absent.
func (c *Config) RemoveEnvironment(name string) error {
	if _, err := c.environment(name); err != nil {
		return err
	}
	delete(c.Environments, name)
	return nil
}

// SetEnvironmentField sets a string field on an existing environment.
func (c *Config) SetEnvironmentField(envName string, f Field, value string) error {
	e, err := c.environment(envName)
	if err != nil {
		return err
	}
	return e.set(f, value)
}

// UnsetEnvironmentField clears a string field on an existing environment.
func (c *Config) UnsetEnvironmentField(envName string, f Field) error {
	e, err := c.environment(envName)
	if err != nil {
		return err
	}
	ok, err := e.unset(f)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(string(f), envName, "environment '%s' has no custom %s", envName, f)
	}
	return nil
}

// AddEnvironmentPortMapping maps hostPort to containerPort, creating the
// environment if needed.
func (c *Config) AddEnvironmentPortMapping(envName, hostPort, containerPort string) error {
	scope := "environment '" + envName + "'"
	if err := validatePortMapping(scope, hostPort, containerPort); err != nil {
		return err
	}
	if !c.ensureEnvironment(envName).addPortMapping(hostPort, containerPort) {
		return alreadyExists("portmapping", hostPort,
			"portmapping on host side for environment '%s' (%s:____) already exists", envName, hostPort)
	}
	return nil
}

// RemoveEnvironmentPortMapping removes the mapping for hostPort.
func (c *Config) RemoveEnvironmentPortMapping(envName, hostPort string) error {
	e, err := c.environment(envName)
	if err != nil {
		return err
	}
	if !e.removePortMapping(hostPort) {
		return notFound("portmapping", hostPort,
			"portmapping on host side for environment '%s' (%s:____) does not exist", envName, hostPort)
	}
	return nil
}

// AddEnvironmentVolume appends a volume, creating the environment if needed.
func (c *Config) AddEnvironmentVolume(envName, containerDir, hostDir string) error {
	v := Volume{Container: containerDir, Host: hostDir}
	if !c.ensureEnvironment(envName).addVolume(v) {
		return alreadyExists("volume", hostDir+":"+containerDir,
			"volume mapping already exists for environment '%s': %s -> %s", envName, hostDir, containerDir)
	}
	return nil
}

// RemoveEnvironmentVolume removes the exact container/host pair.
func (c *Config) RemoveEnvironmentVolume(envName, containerDir, hostDir string) error {
	e, err := c.environment(envName)
	if err != nil {
		return err
	}
	if !e.removeVolume(Volume{Container: containerDir, Host: hostDir}) {
		return notFound("volume", hostDir+":"+containerDir,
			"no matching volume found in environment '%s' for host '%s' -> container '%s'", envName, hostDir, containerDir)
	}
	return nil
}
