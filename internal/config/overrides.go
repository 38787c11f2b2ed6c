package config

import (
	"github.com/docker/go-connections/nat"
)

// Field names a single-string setting shared by services and environments.
type Field string

const (
	FieldServeCommand          Field = "serve_command"
	FieldImageRepository       Field = "image_repository"
	FieldPlatform              Field = "platform"
	FieldDefaultContainerImage Field = "default_container_image"
)

// Fields lists every string setting in display order.
var Fields = []Field{FieldImageRepository, FieldServeCommand, FieldPlatform, FieldDefaultContainerImage}

func (o *Overrides) field(f Field) **string {
	switch f {
	case FieldServeCommand:
		return &o.ServeCommand
	case FieldImageRepository:
		return &o.ImageRepository
	case FieldPlatform:
		return &o.Platform
	case FieldDefaultContainerImage:
		return &o.DefaultContainerImage
	}
	return nil
}

// Get returns the value of f and whether it is set.
func (o *Overrides) Get(f Field) (string, bool) {
	p := o.field(f)
	if p == nil || *p == nil {
		return "", false
	}
	return **p, true
}

func (o *Overrides) set(f Field, value string) error {
	p := o.field(f)
	if p == nil {
		return invalidInput("field", string(f), "unknown field %q", f)
	}
	*p = stringPtr(value)
	return nil
}

// unset clears f and reports whether it was set.
func (o *Overrides) unset(f Field) (bool, error) {
	p := o.field(f)
	if p == nil {
		return false, invalidInput("field", string(f), "unknown field %q", f)
	}
	if *p == nil {
		return false, nil
	}
	*p = nil
	return true, nil
}

// addPortMapping inserts host->container unless the host port is already mapped.
func (o *Overrides) addPortMapping(hostPort, containerPort string) bool {
	if o.HostPortMappings == nil {
		o.HostPortMappings = make(map[string]string)
	}
	if _, ok := o.HostPortMappings[hostPort]; ok {
		return false
	}
	o.HostPortMappings[hostPort] = containerPort
	return true
}

func (o *Overrides) removePortMapping(hostPort string) bool {
	if _, ok := o.HostPortMappings[hostPort]; !ok {
		return false
	}
	delete(o.HostPortMappings, hostPort)
	return true
}

// addVolume appends v unless the exact container/host pair is present.
func (o *Overrides) addVolume(v Volume) bool {
	for _, existing := range o.Volumes {
		if existing == v {
			return false
		}
	}
	if o.Volumes == nil {
		o.Volumes = []Volume{}
	}
	o.Volumes = append(o.Volumes, v)
	return true
}

func (o *Overrides) removeVolume(v Volume) bool {
	kept := o.Volumes[:0:0]
	for _, existing := range o.Volumes {
		if existing != v {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(o.Volumes) {
		return false
	}
	o.Volumes = kept
	return true
}

// validatePortMapping rejects mappings the container engine could not publish.
func validatePortMapping(scope, hostPort, containerPort string) error {
	if hostPort == "" || containerPort == "" {
		return invalidInput("portmapping", hostPort, "port mapping for %s needs both a host and a container port", scope)
	}
	if _, err := nat.ParsePortSpec(hostPort + ":" + containerPort); err != nil {
		return invalidInput("portmapping", hostPort, "invalid port mapping %s:%s for %s: %v", hostPort, containerPort, scope, err)
	}
	return nil
}
