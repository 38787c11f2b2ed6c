package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sarth-shah20/darp/internal/config"
	"github.com/sarth-shah20/darp/internal/docker"
	"github.com/sarth-shah20/darp/internal/logging"
)

func testContext() context.Context {
	return logging.WithLogger(context.Background(), logging.Discard())
}

func TestKindCapabilities(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		binary  string
		gateway string
	}{
		{"docker", KindDocker, "docker", "host.docker.internal"},
		{"podman", KindPodman, "podman", "host.containers.internal"},
		{"none", KindNone, "", "localhost"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseKind(tt.name); got != tt.kind {
				t.Errorf("ParseKind(%q) = %v", tt.name, got)
			}
			if got := tt.kind.Binary(); got != tt.binary {
				t.Errorf("Binary() = %q, want %q", got, tt.binary)
			}
			if got := tt.kind.HostGateway(); got != tt.gateway {
				t.Errorf("HostGateway() = %q, want %q", got, tt.gateway)
			}
			if got := tt.kind.String(); got != tt.name {
				t.Errorf("String() = %q", got)
			}
		})
	}
	if ParseKind("DOCKER") != KindDocker {
		t.Error("ParseKind is case sensitive")
	}
}

func TestPlatformArgs(t *testing.T) {
	tests := []struct {
		kind     Kind
		platform string
		want     []string
	}{
		{KindDocker, "linux/amd64", []string{"--platform", "linux/amd64"}},
		{KindPodman, "linux/arm64", []string{"--os", "linux", "--arch", "arm64"}},
		{KindPodman, "linux/arm64/v8", []string{"--os", "linux", "--arch", "arm64"}},
		{KindPodman, "amd64", []string{"--arch", "amd64"}},
		{KindNone, "linux/amd64", nil},
		{KindDocker, "", nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, tt.kind.PlatformArgs(tt.platform)); diff != "" {
			t.Errorf("%v.PlatformArgs(%q) mismatch (-want +got):\n%s", tt.kind, tt.platform, diff)
		}
	}
}

type fakeCommander struct {
	out   map[string]string
	err   error
	calls []string
}

func (f *fakeCommander) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	line := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, line)
	if f.err != nil {
		return nil, f.err
	}
	for prefix, out := range f.out {
		if strings.HasPrefix(line, prefix) {
			return []byte(out), nil
		}
	}
	return nil, nil
}

func TestPodmanRequireReady(t *testing.T) {
	list := "podman-machine-default* true\nother false\n"

	tests := []struct {
		name    string
		machine string
		err     error
		wantErr error
	}{
		{"default machine running", DefaultPodmanMachine, nil, nil},
		{"named machine down", "other", nil, config.ErrPrecondition},
		{"unknown machine", "ghost", nil, config.ErrPrecondition},
		{"podman missing", DefaultPodmanMachine, errors.New("exec: not found"), config.ErrIO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeCommander{out: map[string]string{"podman machine list": list}, err: tt.err}
			rt := &podmanRuntime{machine: tt.machine, exec: fc}
			err := rt.RequireReady(testContext())
			if tt.wantErr == nil && err != nil {
				t.Fatalf("RequireReady() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("RequireReady() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDetachedArgs(t *testing.T) {
	paths := config.NewPaths("/r")
	got := DetachedArgs(DNSSpec(paths))
	want := []string{
		"run", "-d", "--rm", "--name", "darp-masq",
		"-p", "53:53/udp", "-p", "53:53/tcp",
		"-v", "/r/dnsmasq.d:/etc/dnsmasq.d",
		"--cap-add=NET_ADMIN",
		"dockurr/dnsmasq",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DetachedArgs() mismatch (-want +got):\n%s", diff)
	}
}

func TestRunSpecArgs(t *testing.T) {
	spec := RunSpec{
		Name:        ServiceContainerName("shop", "api"),
		Image:       "reg/env:node20",
		Binds:       []string{"/w/shop/api:/app"},
		Ports:       []string{"50100:8000"},
		Platform:    "linux/amd64",
		Command:     []string{"sh", "-c", "cd /app; exec sh"},
		Interactive: true,
	}
	want := []string{
		"run", "--rm", "-it", "--name", "darp_shop_api",
		"-v", "/w/shop/api:/app",
		"-p", "50100:8000",
		"--os", "linux", "--arch", "amd64",
		"reg/env:node20", "sh", "-c", "cd /app; exec sh",
	}
	if diff := cmp.Diff(want, spec.Args(KindPodman)); diff != "" {
		t.Errorf("Args() mismatch (-want +got):\n%s", diff)
	}
}

type fakeRuntime struct {
	running  []Container
	started  []string
	restarts []string
	stopped  []string
}

func (f *fakeRuntime) Kind() Kind { return KindDocker }

func (f *fakeRuntime) Close() error { return nil }

func (f *fakeRuntime) RequireReady(context.Context) error { return nil }

func (f *fakeRuntime) ListRunning(context.Context) ([]Container, error) { return f.running, nil }

func (f *fakeRuntime) IsRunning(_ context.Context, name string) (bool, error) {
	for _, c := range f.running {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRuntime) StartDetached(_ context.Context, spec docker.ContainerSpec) error {
	f.started = append(f.started, spec.Name)
	return nil
}

func (f *fakeRuntime) Restart(_ context.Context, name string) error {
	f.restarts = append(f.restarts, name)
	return nil
}

func (f *fakeRuntime) Stop(_ context.Context, name string) error {
	f.stopped = append(f.stopped, name)
	return nil
}

func TestHelpers(t *testing.T) {
	ctx := testContext()
	paths := config.NewPaths(t.TempDir())

	rt := &fakeRuntime{running: []Container{
		{Name: ReverseProxyName},
		{Name: "darp_shop_api"},
		{Name: "postgres"},
	}}

	if err := RestartReverseProxy(ctx, rt, paths); err != nil {
		t.Fatal(err)
	}
	if err := EnsureDNS(ctx, rt, paths); err != nil {
		t.Fatal(err)
	}
	stopped, err := StopServices(ctx, rt)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{ReverseProxyName}, rt.restarts); diff != "" {
		t.Errorf("restarts mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]string{DNSName}, rt.started); diff != "" {
		t.Errorf("started mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"darp_shop_api"}, stopped); diff != "" {
		t.Errorf("stopped mismatch:\n%s", diff)
	}

	fresh := &fakeRuntime{}
	if err := RestartReverseProxy(ctx, fresh, paths); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{ReverseProxyName}, fresh.started); diff != "" {
		t.Errorf("proxy not started when absent:\n%s", diff)
	}

	all, _ := StopAll(ctx, rt)
	if len(all) != 2 {
		t.Errorf("StopAll() = %v, want proxy and service", all)
	}
}

func TestNoneRuntime(t *testing.T) {
	rt, err := New(&config.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if rt.Kind() != KindNone {
		t.Fatalf("Kind() = %v", rt.Kind())
	}
	if err := rt.RequireReady(testContext()); !errors.Is(err, config.ErrPrecondition) {
		t.Errorf("RequireReady() error = %v, want ErrPrecondition", err)
	}
	if err := rt.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
