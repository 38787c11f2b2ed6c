package engine

import (
	"context"
	"strings"

	"github.com/sarth-shah20/darp/internal/config"
	"github.com/sarth-shah20/darp/internal/docker"
	"github.com/sarth-shah20/darp/internal/logging"
)

// Names of the helper containers and the prefix of service containers.
const (
	ReverseProxyName = "darp-reverse-proxy"
	DNSName          = "darp-masq"
	ServicePrefix    = "darp_"
)

// ReverseProxySpec is the nginx container serving the generated vhosts on port 80.
func ReverseProxySpec(paths config.Paths) docker.ContainerSpec {
	return docker.ContainerSpec{
		Name:  ReverseProxyName,
		Image: "nginx",
		Ports: []string{"80:80"},
		Binds: []string{paths.VHostConf + ":/etc/nginx/conf.d/vhost_container.conf"},
	}
}

// DNSSpec is the dnsmasq container answering *.test queries.
func DNSSpec(paths config.Paths) docker.ContainerSpec {
	return docker.ContainerSpec{
		Name:   DNSName,
		Image:  "dockurr/dnsmasq",
		Ports:  []string{"53:53/udp", "53:53/tcp"},
		Binds:  []string{paths.DnsmasqDir + ":/etc/dnsmasq.d"},
		CapAdd: []string{"NET_ADMIN"},
	}
}

// ServiceContainerName is the container name used by shell and serve.
func ServiceContainerName(domain, folder string) string {
	return ServicePrefix + domain + "_" + folder
}

// RestartReverseProxy restarts the proxy so it rereads the vhosts, starting it if needed.
func RestartReverseProxy(ctx context.Context, rt Runtime, paths config.Paths) error {
	logger := logging.FromContext(ctx)
	running, err := rt.IsRunning(ctx, ReverseProxyName)
	if err != nil {
		return err
	}
	if running {
		logger.Info(ctx, "restarting", "container", ReverseProxyName)
		return rt.Restart(ctx, ReverseProxyName)
	}
	logger.Info(ctx, "starting", "container", ReverseProxyName)
	return rt.StartDetached(ctx, ReverseProxySpec(paths))
}

// EnsureDNS starts the dnsmasq helper unless it is already running.
func EnsureDNS(ctx context.Context, rt Runtime, paths config.Paths) error {
	running, err := rt.IsRunning(ctx, DNSName)
	if err != nil || running {
		return err
	}
	logging.FromContext(ctx).Info(ctx, "starting", "container", DNSName)
	return rt.StartDetached(ctx, DNSSpec(paths))
}

// StopServices stops every running service container and returns their names.
func StopServices(ctx context.Context, rt Runtime) ([]string, error) {
	return stopMatching(ctx, rt, func(name string) bool {
		return strings.HasPrefix(name, ServicePrefix)
	})
}

// StopAll stops service containers and both helpers.
func StopAll(ctx context.Context, rt Runtime) ([]string, error) {
	return stopMatching(ctx, rt, IsManaged)
}

// IsManaged reports whether a container name belongs to darp.
func IsManaged(name string) bool {
	return strings.HasPrefix(name, ServicePrefix) || name == ReverseProxyName || name == DNSName
}

func stopMatching(ctx context.Context, rt Runtime, match func(string) bool) ([]string, error) {
	list, err := rt.ListRunning(ctx)
	if err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx)
	var stopped []string
	for _, c := range list {
		if !match(c.Name) {
			continue
		}
		logger.Info(ctx, "stopping", "container", c.Name)
		if err := rt.Stop(ctx, c.Name); err != nil {
			logger.Warn(ctx, "stop failed", "container", c.Name, "err", err)
			continue
		}
		stopped = append(stopped, c.Name)
	}
	return stopped, nil
}
