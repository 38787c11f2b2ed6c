package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My App!", "my-app"},
		{"___", FallbackDomainName},
		{"a--b  c", "a-b-c"},
		{"  Trailing_ ", "trailing"},
		{"Ünïcode", "ncode"},
		{"", FallbackDomainName},
		{"v2.api", "v2api"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func mkdir(t *testing.T, parts ...string) string {
	t.Helper()
	p := filepath.Join(parts...)
	if err := os.MkdirAll(p, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", p, err)
	}
	return p
}

func TestAddDomain(t *testing.T) {
	root := t.TempDir()
	loc := mkdir(t, root, "My Sites")

	cfg := &Config{}
	key, d, err := cfg.AddDomain(loc)
	if err != nil {
		t.Fatalf("AddDomain() error = %v", err)
	}
	if d.Name != "my-sites" {
		t.Errorf("domain name = %q, want %q", d.Name, "my-sites")
	}
	if _, ok := cfg.DomainAt(key); !ok {
		t.Errorf("domain not registered under %s", key)
	}

	_, _, err = cfg.AddDomain(loc)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("second AddDomain() error = %v, want ErrAlreadyExists", err)
	}
}

func TestAddDomain_SlugCollision(t *testing.T) {
	root := t.TempDir()
	a := mkdir(t, root, "one", "My_App")
	b := mkdir(t, root, "two", "my app")

	cfg := &Config{}
	if _, _, err := cfg.AddDomain(a); err != nil {
		t.Fatalf("AddDomain(a) error = %v", err)
	}
	_, _, err := cfg.AddDomain(b)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("AddDomain(b) error = %v, want ErrAlreadyExists", err)
	}
	if len(cfg.Domains) != 1 {
		t.Errorf("domains = %d, want 1", len(cfg.Domains))
	}
}

func TestAddDomain_Invalid(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{}

	_, _, err := cfg.AddDomain(filepath.Join(root, "missing"))
	if !errors.Is(err, ErrIO) {
		t.Errorf("missing location error = %v, want ErrIO", err)
	}

	file := filepath.Join(root, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err = cfg.AddDomain(file)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("file location error = %v, want ErrInvalidInput", err)
	}
}

func TestRemoveDomain(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{}
	key, _, err := cfg.AddDomain(mkdir(t, root, "shop"))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := cfg.AddDomain(mkdir(t, root, "blog")); err != nil {
		t.Fatal(err)
	}

	if err := cfg.RemoveDomain("shop"); err != nil {
		t.Fatalf("RemoveDomain(name) error = %v", err)
	}
	if _, ok := cfg.DomainAt(key); ok {
		t.Error("domain still present after removal by name")
	}

	blogKey, _, _ := cfg.DomainByName("blog")
	if err := cfg.RemoveDomain(blogKey); err != nil {
		t.Fatalf("RemoveDomain(location) error = %v", err)
	}

	if err := cfg.RemoveDomain("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveDomain(unknown) error = %v, want ErrNotFound", err)
	}
}

func newDomainConfig(t *testing.T, name string) *Config {
	t.Helper()
	cfg := &Config{}
	if _, _, err := cfg.AddDomain(mkdir(t, t.TempDir(), name)); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestServicePortMapping(t *testing.T) {
	cfg := newDomainConfig(t, "shop")

	if err := cfg.AddServicePortMapping("shop", "api", "8080", "80"); err != nil {
		t.Fatalf("first add error = %v", err)
	}
	if err := cfg.AddServicePortMapping("shop", "api", "8080", "81"); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("duplicate host port error = %v, want ErrAlreadyExists", err)
	}
	if err := cfg.AddServicePortMapping("shop", "api", "8081", "80"); err != nil {
		t.Errorf("different host port error = %v", err)
	}

	_, d, _ := cfg.DomainByName("shop")
	svc, _ := d.Service("api")
	if got := svc.HostPortMappings["8080"]; got != "80" {
		t.Errorf("8080 maps to %q, want 80", got)
	}

	if err := cfg.AddServicePortMapping("nope", "api", "1", "2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing domain error = %v, want ErrNotFound", err)
	}
	if err := cfg.AddServicePortMapping("shop", "api", "abc", "80"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad port error = %v, want ErrInvalidInput", err)
	}

	if err := cfg.RemoveServicePortMapping("shop", "api", "8080"); err != nil {
		t.Errorf("remove error = %v", err)
	}
	if err := cfg.RemoveServicePortMapping("shop", "api", "8080"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second remove error = %v, want ErrNotFound", err)
	}
	if err := cfg.RemoveServicePortMapping("shop", "web", "8080"); !errors.Is(err, ErrNotFound) {
		t.Errorf("remove on missing service error = %v, want ErrNotFound", err)
	}
}

func TestServiceVolumes(t *testing.T) {
	cfg := newDomainConfig(t, "shop")

	if err := cfg.AddServiceVolume("shop", "api", "/app", "/x"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.AddServiceVolume("shop", "api", "/app", "/x"); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("duplicate volume error = %v, want ErrAlreadyExists", err)
	}
	if err := cfg.AddServiceVolume("shop", "api", "/other", "/x"); err != nil {
		t.Errorf("same host, other container error = %v", err)
	}

	if err := cfg.RemoveServiceVolume("shop", "api", "/app", "/x"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.RemoveServiceVolume("shop", "api", "/other", "/x"); err != nil {
		t.Fatal(err)
	}
	_, d, _ := cfg.DomainByName("shop")
	svc, _ := d.Service("api")
	if svc.Volumes == nil || len(svc.Volumes) != 0 {
		t.Errorf("volumes = %#v, want empty non-nil list", svc.Volumes)
	}
	if err := cfg.RemoveServiceVolume("shop", "api", "/app", "/x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("remove missing volume error = %v, want ErrNotFound", err)
	}
}

func TestServiceServeCommand(t *testing.T) {
	cfg := newDomainConfig(t, "shop")

	if err := cfg.UnsetServiceField("shop", "api", FieldServeCommand); !errors.Is(err, ErrNotFound) {
		t.Errorf("unset on missing service error = %v, want ErrNotFound", err)
	}
	if err := cfg.SetServiceField("shop", "api", FieldServeCommand, "npm start"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.UnsetServiceField("shop", "api", FieldServeCommand); err != nil {
		t.Errorf("unset error = %v", err)
	}
	err := cfg.UnsetServiceField("shop", "api", FieldServeCommand)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("second unset error = %v, want ErrNotFound", err)
	}
	if want := "service 'shop.api' has no custom serve_command"; err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestEnvironmentMutations(t *testing.T) {
	cfg := &Config{}

	if err := cfg.SetEnvironmentField("dev", FieldPlatform, "linux/amd64"); !errors.Is(err, ErrNotFound) {
		t.Errorf("set on missing env error = %v, want ErrNotFound", err)
	}

	// add operations create the environment on demand
	if err := cfg.AddEnvironmentPortMapping("dev", "3000", "3000"); err != nil {
		t.Fatal(err)
	}
	if _, ok := cfg.Environment("dev"); !ok {
		t.Fatal("environment not auto-created")
	}
	if err := cfg.AddEnvironmentVolume("qa", "/data", "{home}/data"); err != nil {
		t.Fatal(err)
	}
	if got := cfg.EnvironmentNames(); len(got) != 2 || got[0] != "dev" || got[1] != "qa" {
		t.Errorf("EnvironmentNames() = %v", got)
	}
	if err := cfg.SetEnvironmentField("prod", FieldPlatform, "linux/amd64"); !errors.Is(err, ErrNotFound) || !strings.Contains(err.Error(), "(known: dev, qa)") {
		t.Errorf("set on unknown env error = %v, want ErrNotFound listing dev, qa", err)
	}

	if err := cfg.SetEnvironmentField("dev", FieldServeCommand, "make run"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.UnsetEnvironmentField("dev", FieldServeCommand); err != nil {
		t.Fatal(err)
	}
	err := cfg.UnsetEnvironmentField("dev", FieldServeCommand)
	if want := "environment 'dev' has no custom serve_command"; err == nil || err.Error() != want {
		t.Errorf("second unset error = %v, want %q", err, want)
	}

	if err := cfg.AddEnvironment("dev"); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("AddEnvironment(existing) error = %v, want ErrAlreadyExists", err)
	}
	if err := cfg.RemoveEnvironment("qa"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.RemoveEnvironment("qa"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveEnvironment(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDefaultEnvironment(t *testing.T) {
	cfg := newDomainConfig(t, "shop")

	if err := cfg.SetDomainDefaultEnvironment("shop", "dev"); !errors.Is(err, ErrNotFound) {
		t.Errorf("set to missing env error = %v, want ErrNotFound", err)
	}
	if cfg.Environments != nil {
		t.Error("setting a default environment must not create it")
	}

	if err := cfg.AddEnvironment("dev"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.SetDomainDefaultEnvironment("shop", "dev"); err != nil {
		t.Fatal(err)
	}
	_, d, _ := cfg.DomainByName("shop")
	if name, _, ok := cfg.DefaultEnvironmentOf(d); !ok || name != "dev" {
		t.Errorf("DefaultEnvironmentOf() = %q, %v", name, ok)
	}

	// removal leaves a dangling reference that resolves as absent
	if err := cfg.RemoveEnvironment("dev"); err != nil {
		t.Fatal(err)
	}
	if d.DefaultEnvironment == nil {
		t.Error("reference was cascaded away")
	}
	if _, _, ok := cfg.DefaultEnvironmentOf(d); ok {
		t.Error("dangling default environment resolved as present")
	}

	if err := cfg.UnsetDomainDefaultEnvironment("shop"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.UnsetDomainDefaultEnvironment("shop"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second unset error = %v, want ErrNotFound", err)
	}
}

func TestGlobalSettings(t *testing.T) {
	cfg := &Config{}

	if err := cfg.SetEngine("Docker"); err != nil || cfg.EngineName() != "docker" {
		t.Errorf("SetEngine(Docker) = %v, engine %q", err, cfg.EngineName())
	}
	if err := cfg.SetEngine("containerd"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("SetEngine(containerd) error = %v, want ErrInvalidInput", err)
	}
	if err := cfg.SetPodmanMachine(""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("SetPodmanMachine(\"\") error = %v", err)
	}

	if v, err := cfg.SetURLsInHosts("off"); err != nil || v || cfg.URLsInHostsEnabled() {
		t.Errorf("SetURLsInHosts(off) = %v, %v", v, err)
	}
	if v, err := cfg.SetURLsInHosts("YES"); err != nil || !v || !cfg.URLsInHostsEnabled() {
		t.Errorf("SetURLsInHosts(YES) = %v, %v", v, err)
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"TRUE", "true", "1", "yes", "Y", "on"} {
		if v, err := ParseBool(s); err != nil || !v {
			t.Errorf("ParseBool(%q) = %v, %v", s, v, err)
		}
	}
	for _, s := range []string{"FALSE", "false", "0", "no", "n", "Off"} {
		if v, err := ParseBool(s); err != nil || v {
			t.Errorf("ParseBool(%q) = %v, %v", s, v, err)
		}
	}
	if _, err := ParseBool("maybe"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ParseBool(maybe) error = %v, want ErrInvalidInput", err)
	}
}
