// Package osint installs the host-side pieces darp depends on: the *.test
// resolver, the dnsmasq address rule, nginx.conf and the hosts file block.
package osint

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sarth-shah20/darp/internal/config"
	"github.com/sarth-shah20/darp/internal/deploy"
	"github.com/sarth-shah20/darp/internal/logging"
)

// File contents written by install.
const (
	ResolverContents = "nameserver 127.0.0.1\n"
	DnsmasqContents  = "address=/.test/127.0.0.1\n"
	DnsmasqFile      = "test.conf"
)

// Privileged performs file operations that need root.
type Privileged interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte) error
	MkdirAll(ctx context.Context, dir string) error
	Remove(ctx context.Context, path string) error
}

// Sudo runs file operations through sudo.
type Sudo struct{}

func (Sudo) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return exec.CommandContext(ctx, "sudo", "cat", path).Output()
}

func (Sudo) WriteFile(ctx context.Context, path string, data []byte) error {
	cmd := exec.CommandContext(ctx, "sudo", "tee", path)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (Sudo) MkdirAll(ctx context.Context, dir string) error {
	return exec.CommandContext(ctx, "sudo", "mkdir", "-p", dir).Run()
}

func (Sudo) Remove(ctx context.Context, path string) error {
	return exec.CommandContext(ctx, "sudo", "rm", "-f", path).Run()
}

// Integration ties the runtime settings to a Privileged implementation.
type Integration struct {
	Settings *config.Settings
	Paths    config.Paths
	Priv     Privileged
}

// New returns an Integration that escalates with sudo.
func New(s *config.Settings, paths config.Paths) *Integration {
	return &Integration{Settings: s, Paths: paths, Priv: Sudo{}}
}

// InstallResolver points the *.test resolver at the local dnsmasq.
func (o *Integration) InstallResolver(ctx context.Context) error {
	path := o.Settings.ResolverFile
	if err := o.Priv.MkdirAll(ctx, filepath.Dir(path)); err != nil {
		return config.IOError("resolver", path, err, "creating %s", filepath.Dir(path))
	}
	if err := o.Priv.WriteFile(ctx, path, []byte(ResolverContents)); err != nil {
		return config.IOError("resolver", path, err, "writing %s", path)
	}
	logging.FromContext(ctx).Info(ctx, "resolver installed", "path", path)
	return nil
}

// RemoveResolver deletes the resolver file. Config under the root is left alone.
func (o *Integration) RemoveResolver(ctx context.Context) error {
	path := o.Settings.ResolverFile
	if err := o.Priv.Remove(ctx, path); err != nil {
		return config.IOError("resolver", path, err, "removing %s", path)
	}
	logging.FromContext(ctx).Info(ctx, "resolver removed", "path", path)
	return nil
}

// InstallDnsmasq writes the rule resolving every *.test name to loopback.
func (o *Integration) InstallDnsmasq(ctx context.Context) error {
	path := filepath.Join(o.Paths.DnsmasqDir, DnsmasqFile)
	if err := config.WriteFileAtomic(path, []byte(DnsmasqContents)); err != nil {
		return err
	}
	logging.FromContext(ctx).Info(ctx, "dnsmasq rule written", "path", path)
	return nil
}

// InstallNginxConf copies the shipped nginx.conf under the root.
func (o *Integration) InstallNginxConf(ctx context.Context) error {
	src := o.Settings.NginxConfSource
	data, err := os.ReadFile(src)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Precondition("nginx.conf", src, "Expected nginx.conf at %s not found", src)
	}
	if err != nil {
		return config.IOError("nginx.conf", src, err, "reading %s", src)
	}
	if err := config.WriteFileAtomic(o.Paths.NginxConf, data); err != nil {
		return err
	}
	logging.FromContext(ctx).Info(ctx, "nginx.conf installed", "path", o.Paths.NginxConf)
	return nil
}

// SyncHosts replaces darp's block in the system hosts file with lines.
func (o *Integration) SyncHosts(ctx context.Context, lines []string) error {
	path := o.Settings.HostsFile
	current, err := o.Priv.ReadFile(ctx, path)
	if err != nil {
		return config.IOError("hosts", path, err, "unable to read %s", path)
	}
	updated := deploy.RewriteHostsBlock(string(current), lines)
	if err := o.Priv.WriteFile(ctx, path, []byte(updated)); err != nil {
		return config.IOError("hosts", path, err, "unable to write %s", path)
	}
	logging.FromContext(ctx).Info(ctx, "hosts file updated", "path", path, "entries", len(lines))
	return nil
}
