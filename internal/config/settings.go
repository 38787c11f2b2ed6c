package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Settings are the runtime knobs that live outside config.json.
// Each can be set through a DARP_* environment variable or a bound flag.
type Settings struct {
	Root            string `mapstructure:"root"`              // DARP_ROOT
	LogFormat       string `mapstructure:"log_format"`        // DARP_LOG_FORMAT
	NginxConfSource string `mapstructure:"nginx_conf_source"` // DARP_NGINX_CONF_SOURCE
	ResolverFile    string `mapstructure:"resolver_file"`     // DARP_RESOLVER_FILE
	HostsFile       string `mapstructure:"hosts_file"`        // DARP_HOSTS_FILE
}

// NewViper returns a viper instance with darp's defaults and env bindings.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("DARP")
	v.AutomaticEnv()

	if home, err := os.UserHomeDir(); err == nil {
		v.SetDefault("root", filepath.Join(home, ".darp"))
	} else {
		v.SetDefault("root", "")
	}
	v.SetDefault("log_format", "human")
	v.SetDefault("nginx_conf_source", "/usr/local/opt/darp/nginx.conf")
	v.SetDefault("resolver_file", "/etc/resolver/test")
	v.SetDefault("hosts_file", "/etc/hosts")
	return v
}

// LoadSettings decodes the settings held by v.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}
	if s.Root == "" {
		return nil, fmt.Errorf("could not determine home directory; set DARP_ROOT")
	}
	return &s, nil
}

// Paths locates every file darp reads or generates under its root.
type Paths struct {
	Root           string
	Config         string
	PortMap        string
	DnsmasqDir     string
	VHostConf      string
	HostsContainer string
	NginxConf      string
}

// NewPaths lays out the files below root.
func NewPaths(root string) Paths {
	return Paths{
		Root:           root,
		Config:         filepath.Join(root, "config.json"),
		PortMap:        filepath.Join(root, "portmap.json"),
		DnsmasqDir:     filepath.Join(root, "dnsmasq.d"),
		VHostConf:      filepath.Join(root, "vhost_container.conf"),
		HostsContainer: filepath.Join(root, "hosts_container"),
		NginxConf:      filepath.Join(root, "nginx.conf"),
	}
}
