// Package session turns the current directory and the configuration into the
// container run for "darp shell" and "darp serve".
package session

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/sarth-shah20/darp/internal/config"
	"github.com/sarth-shah20/darp/internal/deploy"
	"github.com/sarth-shah20/darp/internal/engine"
)

// Mode selects between an interactive shell and running the serve command.
type Mode string

const (
	ModeShell Mode = "shell"
	ModeServe Mode = "serve"
)

// ProxyPort is the container port the reverse proxy forwards to.
const ProxyPort = 8000

// Options are the per-invocation inputs.
type Options struct {
	Mode        Mode
	Environment string // empty falls back to the domain's default environment
	Image       string // image tag given on the command line, may be empty
}

// Target is the service the current directory resolves to.
type Target struct {
	DomainKey   string
	Domain      *config.Domain
	Folder      string
	Service     *config.Service // nil when the folder has no overrides
	EnvName     string
	Environment *config.Environment // nil when no environment applies
}

// Locate finds the domain whose location is the parent of rc.WorkDir and the
// environment to use.
func Locate(cfg *config.Config, rc config.ResolutionContext, envName string) (*Target, error) {
	folder := filepath.Base(rc.WorkDir)
	parent := filepath.Dir(rc.WorkDir)
	key, err := filepath.EvalSymlinks(parent)
	if err != nil {
		key = parent
	}

	d, ok := cfg.DomainAt(key)
	if !ok {
		return nil, config.Precondition("domain", key, "domain location '%s' does not exist in darp's domain configuration.", key)
	}
	t := &Target{DomainKey: key, Domain: d, Folder: folder}
	t.Service, _ = d.Service(folder)

	if envName != "" {
		env, ok := cfg.Environment(envName)
		if !ok {
			return nil, config.Precondition("environment", envName, "Environment '%s' does not exist.", envName)
		}
		t.EnvName, t.Environment = envName, env
	} else if name, env, ok := cfg.DefaultEnvironmentOf(d); ok {
		t.EnvName, t.Environment = name, env
	}
	return t, nil
}

// Build assembles the run for opts from the current directory.
func Build(cfg *config.Config, paths config.Paths, rc config.ResolutionContext, kind engine.Kind, opts Options) (*engine.RunSpec, error) {
	t, err := Locate(cfg, rc, opts.Environment)
	if err != nil {
		return nil, err
	}
	domainName := t.Domain.Name

	var inner string
	switch opts.Mode {
	case ModeServe:
		if t.Environment == nil {
			return nil, config.Precondition("environment", "", "'darp serve' needs an environment: pass -e <env> or run 'darp config set domain default-environment %s <env>'", domainName)
		}
		serve, ok := config.EffectiveServeCommand(t.Service, t.Environment)
		if !ok {
			return nil, config.Precondition("serve_command", domainName+"."+t.Folder,
				"Neither service '%s.%s' nor environment '%s' has a serve_command configured.\nUse 'darp config set svc serve-command %s %s <cmd>' or 'darp config set env serve-command %s <cmd>' first.",
				domainName, t.Folder, t.EnvName, domainName, t.Folder, t.EnvName)
		}
		inner = ServeScript(serve)
	default:
		inner = ShellScript
	}

	spec := &engine.RunSpec{
		Name:        engine.ServiceContainerName(domainName, t.Folder),
		Interactive: opts.Mode != ModeServe,
		Binds: []string{
			rc.WorkDir + ":/app",
			paths.HostsContainer + ":/etc/hosts",
			paths.NginxConf + ":/etc/nginx/nginx.conf",
			paths.VHostConf + ":/etc/nginx/http.d/vhost_container.conf",
		},
	}

	for _, v := range config.EffectiveVolumes(t.Service, t.Environment) {
		host := config.ResolveHostPath(v.Host, rc)
		if _, err := os.Stat(host); err != nil {
			return nil, config.Precondition("volume", v.Host, "Volume %s does not appear to exist.", v.Host)
		}
		spec.Binds = append(spec.Binds, host+":"+v.Container)
	}

	mappings := config.EffectivePortMappings(t.Service, t.Environment)
	hostPorts := make([]string, 0, len(mappings))
	for h := range mappings {
		hostPorts = append(hostPorts, h)
	}
	sort.Strings(hostPorts)
	for _, h := range hostPorts {
		spec.Ports = append(spec.Ports, h+":"+mappings[h])
	}

	pm, err := deploy.LoadPortMap(paths.PortMap)
	if err != nil {
		return nil, err
	}
	port, ok := pm.Lookup(domainName, t.Folder)
	if !ok {
		return nil, config.Precondition("port", domainName+"."+t.Folder, "port not yet assigned to %s, run 'darp deploy'", t.Folder)
	}
	spec.Ports = append(spec.Ports, strconv.Itoa(port)+":"+strconv.Itoa(ProxyPort))

	spec.Platform, _ = config.EffectivePlatform(t.Service, t.Environment)

	base, err := config.ResolveBaseImage(opts.Image, t.Environment, t.Service, config.ImageScope{
		Domain:      domainName,
		Service:     t.Folder,
		Environment: t.EnvName,
		Command:     string(opts.Mode),
	})
	if err != nil {
		return nil, err
	}
	spec.Image = config.ResolveImageName(t.Environment, t.Service, base)
	spec.Command = []string{"sh", "-c", inner}
	return spec, nil
}

const startNginx = `if command -v nginx >/dev/null 2>&1; then
    echo "Starting nginx..."; nginx;
else
    echo "nginx not found, skipping";
fi;
`

// ShellScript starts nginx if the image has it and drops into sh in /app.
const ShellScript = startNginx + `echo "";
echo "To leave this shell and stop the container, type: $(printf '\033[33m')exit$(printf '\033[0m')"
echo "";
cd /app; exec sh`

// ServeScript starts nginx if present and runs serve in /app.
func ServeScript(serve string) string {
	return startNginx + "cd /app; " + serve
}
