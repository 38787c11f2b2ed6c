package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveImageName(t *testing.T) {
	env := &Environment{Overrides{ImageRepository: stringPtr("reg/env")}}
	bare := &Service{}
	own := &Service{Overrides{ImageRepository: stringPtr("reg/svc")}}

	tests := []struct {
		name string
		env  *Environment
		svc  *Service
		want string
	}{
		{"falls back to environment", env, bare, "reg/env:node20"},
		{"service wins", env, own, "reg/svc:node20"},
		{"nil service", env, nil, "reg/env:node20"},
		{"no repository", &Environment{}, bare, "node20"},
		{"nothing at all", nil, nil, "node20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveImageName(tt.env, tt.svc, "node20"); got != tt.want {
				t.Errorf("ResolveImageName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveBaseImage(t *testing.T) {
	env := &Environment{Overrides{DefaultContainerImage: stringPtr("env-img")}}
	svc := &Service{Overrides{DefaultContainerImage: stringPtr("svc-img")}}
	scope := ImageScope{Domain: "shop", Service: "api", Environment: "dev", Command: "shell"}

	tests := []struct {
		name string
		cli  string
		env  *Environment
		svc  *Service
		want string
	}{
		{"cli literal wins", "cli-img", env, svc, "cli-img"},
		{"service over environment", "", env, svc, "svc-img"},
		{"environment fallback", "", env, &Service{}, "env-img"},
		{"environment without service", "", env, nil, "env-img"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveBaseImage(tt.cli, tt.env, tt.svc, scope)
			if err != nil {
				t.Fatalf("ResolveBaseImage() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveBaseImage() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("none configured", func(t *testing.T) {
		_, err := ResolveBaseImage("", &Environment{}, &Service{}, scope)
		if !errors.Is(err, ErrPrecondition) {
			t.Fatalf("error = %v, want ErrPrecondition", err)
		}
		for _, want := range []string{
			"'shop.api' in environment 'dev'",
			"darp config set svc default-container-image shop api <image>",
			"darp config set env default-container-image dev <image>",
		} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("message missing %q:\n%s", want, err)
			}
		}
	})
}

func TestEffectiveFieldsResolveIndependently(t *testing.T) {
	env := &Environment{Overrides{
		HostPortMappings: map[string]string{"3000": "3000"},
		Volumes:          []Volume{{Container: "/cache", Host: "{home}/.cache"}},
		ServeCommand:     stringPtr("make serve"),
		Platform:         stringPtr("linux/amd64"),
	}}
	svc := &Service{Overrides{
		Volumes:  []Volume{},
		Platform: stringPtr("linux/arm64"),
	}}

	if diff := cmp.Diff(map[string]string{"3000": "3000"}, EffectivePortMappings(svc, env)); diff != "" {
		t.Errorf("port mappings mismatch (-want +got):\n%s", diff)
	}
	// an empty but present list shadows the environment
	if got := EffectiveVolumes(svc, env); got == nil || len(got) != 0 {
		t.Errorf("EffectiveVolumes() = %#v, want empty list", got)
	}
	if got, _ := EffectivePlatform(svc, env); got != "linux/arm64" {
		t.Errorf("EffectivePlatform() = %q", got)
	}
	if got, ok := EffectiveServeCommand(svc, env); !ok || got != "make serve" {
		t.Errorf("EffectiveServeCommand() = %q, %v", got, ok)
	}
	if _, ok := EffectiveServeCommand(&Service{}, nil); ok {
		t.Error("EffectiveServeCommand() reported a value with both tiers unset")
	}

	svc.Volumes = nil
	want := []Volume{{Container: "/cache", Host: "{home}/.cache"}}
	if diff := cmp.Diff(want, EffectiveVolumes(svc, env)); diff != "" {
		t.Errorf("volumes mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveHostPath(t *testing.T) {
	rc := ResolutionContext{WorkDir: "/work/shop/api", HomeDir: "/home/dev"}
	tests := []struct {
		in, want string
	}{
		{"{pwd}/data", "/work/shop/api/data"},
		{"{home}/.cache", "/home/dev/.cache"},
		{"/srv/static", "/srv/static"},
		{"{home}/{pwd}", "/home/dev//work/shop/api"},
		{"{unknown}/x", "{unknown}/x"},
	}
	for _, tt := range tests {
		if got := ResolveHostPath(tt.in, rc); got != tt.want {
			t.Errorf("ResolveHostPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
