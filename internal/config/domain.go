package config

import (
	"os"
	"path/filepath"
	"sort"
)

// DomainKeys returns the domain locations in sorted order.
func (c *Config) DomainKeys() []string {
	keys := make([]string, 0, len(c.Domains))
	for k, d := range c.Domains {
		if d != nil {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// DomainAt returns the domain registered at the canonical location.
func (c *Config) DomainAt(location string) (*Domain, bool) {
	d, ok := c.Domains[location]
	return d, ok && d != nil
}

// DomainByName finds a domain by its logical name and returns its location.
func (c *Config) DomainByName(name string) (string, *Domain, bool) {
	for _, k := range c.DomainKeys() {
		if d := c.Domains[k]; d.Name == name {
			return k, d, true
		}
	}
	return "", nil, false
}

// domain is the get-or-fail lookup used by every operation scoped to a domain.
func (c *Config) domain(name string) (*Domain, error) {
	_, d, ok := c.DomainByName(name)
	if !ok {
		return nil, notFound("domain", name, "domain %s does not exist", name)
	}
	return d, nil
}

// CanonicalLocation resolves location to an absolute path with symlinks evaluated.
func CanonicalLocation(location string) (string, error) {
	abs, err := filepath.Abs(location)
	if err != nil {
		return "", IOError("domain", location, err, "failed to canonicalize domain location '%s'", location)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", IOError("domain", location, err, "failed to canonicalize domain location '%s'", location)
	}
	return canonical, nil
}

// AddDomain registers location as a domain named after its final path segment.
// It returns the canonical location used as the key.
func (c *Config) AddDomain(location string) (string, *Domain, error) {
	key, err := CanonicalLocation(location)
	if err != nil {
		return "", nil, err
	}
	info, err := os.Stat(key)
	if err != nil {
		return "", nil, IOError("domain", key, err, "failed to inspect domain location '%s'", key)
	}
	if !info.IsDir() {
		return "", nil, invalidInput("domain", key, "domain location '%s' is not a directory", key)
	}

	name := Slugify(filepath.Base(key))

	if _, ok := c.DomainAt(key); ok {
		return "", nil, alreadyExists("domain", key, "domain with location '%s' already exists", key)
	}
	if _, _, ok := c.DomainByName(name); ok {
		return "", nil, alreadyExists("domain", name, "domain name '%s' already exists; domain names must be unique", name)
	}

	if c.Domains == nil {
		c.Domains = make(map[string]*Domain)
	}
	d := &Domain{Name: name}
	c.Domains[key] = d
	return key, d, nil
}

// RemoveDomain deletes the domain whose name or location equals nameOrLocation.
func (c *Config) RemoveDomain(nameOrLocation string) error {
	for _, k := range c.DomainKeys() {
		if c.Domains[k].Name == nameOrLocation || k == nameOrLocation {
			delete(c.Domains, k)
			return nil
		}
	}
	return notFound("domain", nameOrLocation, "domain %s does not exist", nameOrLocation)
}

// SetDomainDefaultEnvironment points a domain at an existing environment.
func (c *Config) SetDomainDefaultEnvironment(domainName, envName string) error {
	if _, err := c.environment(envName); err != nil {
		return err
	}
	d, err := c.domain(domainName)
	if err != nil {
		return err
	}
	d.DefaultEnvironment = stringPtr(envName)
	return nil
}

// UnsetDomainDefaultEnvironment clears a domain's default environment.
func (c *Config) UnsetDomainDefaultEnvironment(domainName string) error {
	d, err := c.domain(domainName)
	if err != nil {
		return err
	}
	if d.DefaultEnvironment == nil {
		return notFound("default_environment", domainName, "domain '%s' has no default_environment", domainName)
	}
	d.DefaultEnvironment = nil
	return nil
}

// DefaultEnvironmentOf returns the environment a domain defaults to. A
// reference to an environment that no longer exists resolves as absent.
func (c *Config) DefaultEnvironmentOf(d *Domain) (string, *Environment, bool) {
	if d == nil || d.DefaultEnvironment == nil {
		return "", nil, false
	}
	env, ok := c.Environments[*d.DefaultEnvironment]
	if !ok || env == nil {
		return "", nil, false
	}
	return *d.DefaultEnvironment, env, true
}
