package config

import (
	"fmt"
	"os"
	"strings"
)

// Host path pseudo-tokens.
const (
	PwdToken  = "{pwd}"
	HomeToken = "{home}"
)

// ResolutionContext carries the process state that resolution depends on.
type ResolutionContext struct {
	WorkDir string
	HomeDir string
}

// CurrentResolutionContext captures the working and home directories of this process.
func CurrentResolutionContext() (ResolutionContext, error) {
	wd, err := os.Getwd()
	if err != nil {
		return ResolutionContext{}, IOError("workdir", "", err, "could not determine current directory")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ResolutionContext{}, IOError("home", "", err, "could not determine home directory")
	}
	return ResolutionContext{WorkDir: wd, HomeDir: home}, nil
}

// ResolveHostPath substitutes {pwd} and {home} in a volume host template.
func ResolveHostPath(template string, rc ResolutionContext) string {
	s := strings.ReplaceAll(template, PwdToken, rc.WorkDir)
	return strings.ReplaceAll(s, HomeToken, rc.HomeDir)
}

func serviceOverrides(svc *Service) *Overrides {
	if svc == nil {
		return nil
	}
	return &svc.Overrides
}

func environmentOverrides(env *Environment) *Overrides {
	if env == nil {
		return nil
	}
	return &env.Overrides
}

// effectiveField applies service-then-environment precedence to a string field.
func effectiveField(svc *Service, env *Environment, f Field) (string, bool) {
	for _, o := range []*Overrides{serviceOverrides(svc), environmentOverrides(env)} {
		if o == nil {
			continue
		}
		if v, ok := o.Get(f); ok {
			return v, true
		}
	}
	return "", false
}

// EffectiveServeCommand returns the serve command of the service, else the environment.
func EffectiveServeCommand(svc *Service, env *Environment) (string, bool) {
	return effectiveField(svc, env, FieldServeCommand)
}

// EffectivePlatform returns the platform of the service, else the environment.
func EffectivePlatform(svc *Service, env *Environment) (string, bool) {
	return effectiveField(svc, env, FieldPlatform)
}

// EffectivePortMappings returns the service's mappings when the service
// defines any at all, else the environment's.
func EffectivePortMappings(svc *Service, env *Environment) map[string]string {
	if svc != nil && svc.HostPortMappings != nil {
		return svc.HostPortMappings
	}
	if env != nil {
		return env.HostPortMappings
	}
	return nil
}

// EffectiveVolumes returns the service's volumes when the service defines
// the field at all, else the environment's. Lists are never merged.
func EffectiveVolumes(svc *Service, env *Environment) []Volume {
	if svc != nil && svc.Volumes != nil {
		return svc.Volumes
	}
	if env != nil {
		return env.Volumes
	}
	return nil
}

// ResolveImageName prefixes cliImage with the effective image repository.
func ResolveImageName(env *Environment, svc *Service, cliImage string) string {
	if repo, ok := effectiveField(svc, env, FieldImageRepository); ok {
		return repo + ":" + cliImage
	}
	return cliImage
}

// ImageScope names what an image is being resolved for, for error messages.
type ImageScope struct {
	Domain      string
	Service     string
	Environment string // empty when no environment was selected
	Command     string // "shell" or "serve"
}

// ResolveBaseImage picks the image tag: cliImage, else the service's
// default_container_image, else the environment's.
func ResolveBaseImage(cliImage string, env *Environment, svc *Service, scope ImageScope) (string, error) {
	if cliImage != "" {
		return cliImage, nil
	}
	if img, ok := effectiveField(svc, env, FieldDefaultContainerImage); ok {
		return img, nil
	}

	var b strings.Builder
	if scope.Environment != "" {
		fmt.Fprintf(&b, "No container image provided for '%s.%s' in environment '%s'.\n", scope.Domain, scope.Service, scope.Environment)
	} else {
		fmt.Fprintf(&b, "No container image provided for '%s.%s'.\n", scope.Domain, scope.Service)
	}
	envArg := scope.Environment
	if envArg == "" {
		envArg = "<env>"
	}
	fmt.Fprintf(&b, "Either pass an explicit image to 'darp %s' or configure a default_container_image:\n", scope.Command)
	fmt.Fprintf(&b, "  darp config set svc default-container-image %s %s <image>\n", scope.Domain, scope.Service)
	b.WriteString("or\n")
	fmt.Fprintf(&b, "  darp config set env default-container-image %s <image>", envArg)

	return "", Precondition("image", scope.Domain+"."+scope.Service, "%s", b.String())
}
