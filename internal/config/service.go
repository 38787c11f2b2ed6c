package config

// Service returns the override entry for a folder of the domain, if any.
func (d *Domain) Service(folder string) (*Service, bool) {
	if d == nil {
		return nil, false
	}
	s, ok := d.Services[folder]
	return s, ok && s != nil
}

// ensureService is the get-or-create lookup: the domain must exist, the
// service entry is created on demand.
func (c *Config) ensureService(domainName, serviceName string) (*Service, error) {
	d, err := c.domain(domainName)
	if err != nil {
		return nil, err
	}
	if s, ok := d.Service(serviceName); ok {
		return s, nil
	}
	if d.Services == nil {
		d.Services = make(map[string]*Service)
	}
	s := &Service{}
	d.Services[serviceName] = s
	return s, nil
}

// service is the get-or-fail lookup used by remove operations.
func (c *Config) service(domainName, serviceName string) (*Service, error) {
	d, err := c.domain(domainName)
	if err != nil {
		return nil, err
	}
	s, ok := d.Service(serviceName)
	if !ok {
		return nil, notFound("service", serviceName, "service %s does not exist in domain %s", serviceName, domainName)
	}
	return s, nil
}

// SetServiceField sets a string field on a service of an existing domain.
func (c *Config) SetServiceField(domainName, serviceName string, f Field, value string) error {
	s, err := c.ensureService(domainName, serviceName)
	if err != nil {
		return err
	}
	return s.set(f, value)
}

// UnsetServiceField clears a string field on an existing service.
func (c *Config) UnsetServiceField(domainName, serviceName string, f Field) error {
	s, err := c.service(domainName, serviceName)
	if err != nil {
		return err
	}
	ok, err := s.unset(f)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(string(f), domainName+"."+serviceName,
			"service '%s.%s' has no custom %s", domainName, serviceName, f)
	}
	return nil
}

// AddServicePortMapping maps hostPort to containerPort for a service.
func (c *Config) AddServicePortMapping(domainName, serviceName, hostPort, containerPort string) error {
	scope := "service '" + domainName + "." + serviceName + "'"
	if err := validatePortMapping(scope, hostPort, containerPort); err != nil {
		return err
	}
	s, err := c.ensureService(domainName, serviceName)
	if err != nil {
		return err
	}
	if !s.addPortMapping(hostPort, containerPort) {
		return alreadyExists("portmapping", hostPort,
			"portmapping on host side '%s.%s' (%s:____) already exists", domainName, serviceName, hostPort)
	}
	return nil
}

// RemoveServicePortMapping removes the mapping for hostPort.
func (c *Config) RemoveServicePortMapping(domainName, serviceName, hostPort string) error {
	s, err := c.service(domainName, serviceName)
	if err != nil {
		return err
	}
	if !s.removePortMapping(hostPort) {
		return notFound("portmapping", hostPort,
			"portmapping on host side '%s.%s' (%s:____) does not exist", domainName, serviceName, hostPort)
	}
	return nil
}

// AddServiceVolume appends a volume to a service.
func (c *Config) AddServiceVolume(domainName, serviceName, containerDir, hostDir string) error {
	s, err := c.ensureService(domainName, serviceName)
	if err != nil {
		return err
	}
	if !s.addVolume(Volume{Container: containerDir, Host: hostDir}) {
		return alreadyExists("volume", hostDir+":"+containerDir,
			"volume mapping already exists for service '%s.%s': %s -> %s", domainName, serviceName, hostDir, containerDir)
	}
	return nil
}

// RemoveServiceVolume removes the exact container/host pair from a service.
func (c *Config) RemoveServiceVolume(domainName, serviceName, containerDir, hostDir string) error {
	s, err := c.service(domainName, serviceName)
	if err != nil {
		return err
	}
	if !s.removeVolume(Volume{Container: containerDir, Host: hostDir}) {
		return notFound("volume", hostDir+":"+containerDir,
			"no matching volume found in service '%s.%s' for host '%s' -> container '%s'", domainName, serviceName, hostDir, containerDir)
	}
	return nil
}
