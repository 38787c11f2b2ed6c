package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sarth-shah20/darp/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands that modify config.json",
}

var configSetCmd = &cobra.Command{Use: "set", Short: "Set values in config"}
var configAddCmd = &cobra.Command{Use: "add", Short: "Add to config"}
var configRmCmd = &cobra.Command{Use: "rm", Short: "Remove from config"}

// mutate applies change to the loaded config and saves it only on success.
func mutate(cmd *cobra.Command, change func() error, format string, args ...any) error {
	if err := change(); err != nil {
		return err
	}
	if err := saveConfig(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
	return nil
}

// flagName turns a field into its command name, e.g. serve_command -> serve-command.
func flagName(f config.Field) string {
	return strings.ReplaceAll(string(f), "_", "-")
}

var setEngineCmd = &cobra.Command{
	Use:   "engine <podman|docker>",
	Short: "Set container engine (podman|docker)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func() error { return cfg.SetEngine(args[0]) },
			"Engine set. New darp invocations will use this container engine.")
	},
}

var setPodmanMachineCmd = &cobra.Command{
	Use:   "podman-machine <name>",
	Short: "Set the podman machine that must be running",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func() error { return cfg.SetPodmanMachine(args[0]) },
			"podman_machine set to '%s' in config (%s).", args[0], paths.Config)
	},
}

var setURLsInHostsCmd = &cobra.Command{
	Use:   "urls-in-hosts <true|false>",
	Short: "Enable/disable mirroring URLs into the system hosts file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var enabled bool
		err := mutate(cmd, func() error {
			var err error
			enabled, err = cfg.SetURLsInHosts(args[0])
			return err
		}, "urls_in_hosts updated (stored in %s).", paths.Config)
		if err == nil {
			state := "disabled"
			if enabled {
				state = "enabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Mirroring is %s; the next 'darp deploy' will sync %s accordingly.\n", state, settings.HostsFile)
		}
		return err
	},
}

var setEnvCmd = &cobra.Command{Use: "env", Short: "Set a field on an environment"}
var setSvcCmd = &cobra.Command{Use: "svc", Short: "Set a field on a service"}
var setDomainCmd = &cobra.Command{Use: "domain", Short: "Set a field on a domain"}

var setDomainDefaultEnvCmd = &cobra.Command{
	Use:   "default-environment <domain> <environment>",
	Short: "Set the environment shell and serve fall back to",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func() error { return cfg.SetDomainDefaultEnvironment(args[0], args[1]) },
			"Set default_environment for domain '%s' to '%s'.", args[0], args[1])
	},
}

var addDomainCmd = &cobra.Command{
	Use:   "domain <location>",
	Short: "Add a domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var key string
		var d *config.Domain
		err := mutate(cmd, func() error {
			var err error
			key, d, err = cfg.AddDomain(args[0])
			return err
		}, "Domain added.")
		if err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s -> %s\n", d.Name, key)
		}
		return err
	},
}

var addEnvironmentCmd = &cobra.Command{
	Use:   "environment <name>",
	Short: "Create an empty environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func() error { return cfg.AddEnvironment(args[0]) },
			"Environment '%s' created.", args[0])
	},
}

var addEnvCmd = &cobra.Command{
	Use:   "env",
	Short: "Add environment-scoped configuration (environments are created as needed)",
}

var addEnvPortmapCmd = &cobra.Command{
	Use:   "portmap <environment> <host_port> <container_port>",
	Short: "Add a port mapping to an environment",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func() error { return cfg.AddEnvironmentPortMapping(args[0], args[1], args[2]) },
			"Added port mapping %s:%s to environment '%s'.", args[1], args[2], args[0])
	},
}

var addEnvVolumeCmd = &cobra.Command{
	Use:   "volume <environment> <container_dir> <host_dir>",
	Short: "Add a volume to an environment ({pwd} and {home} are expanded at run time)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func() error { return cfg.AddEnvironmentVolume(args[0], args[1], args[2]) },
			"Added volume %s -> %s to environment '%s'.", args[2], args[1], args[0])
	},
}

var addSvcCmd = &cobra.Command{Use: "svc", Short: "Add service-scoped configuration"}

var addSvcPortmapCmd = &cobra.Command{
	Use:   "portmap <domain> <service> <host_port> <container_port>",
	Short: "Add a port mapping to a service",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func() error { return cfg.AddServicePortMapping(args[0], args[1], args[2], args[3]) },
			"Added port mapping %s:%s to service '%s.%s'.", args[2], args[3], args[0], args[1])
	},
}

var addSvcVolumeCmd = &cobra.Command{
	Use:   "volume <domain> <service> <container_dir> <host_dir>",
	Short: "Add a volume to a service",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func() error { return cfg.AddServiceVolume(args[0], args[1], args[2], args[3]) },
			"Added volume %s -> %s to service '%s.%s'.", args[3], args[2], args[0], args[1])
	},
}

var rmDomainCmd = &cobra.Command{
	Use:   "domain <name|location>",
	Short: "Remove a domain by name or location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func() error { return cfg.RemoveDomain(args[0]) },
			"Domain '%s' removed.", args[0])
	},
}

var rmPodmanMachineCmd = &cobra.Command{
	Use:   "podman-machine",
	Short: "Remove podman_machine from config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func() error { cfg.UnsetPodmanMachine(); return nil },
			"podman_machine removed from config.")
	},
}

var rmEnvironmentCmd = &cobra.Command{
	Use:   "environment <name>",
	Short: "Remove an environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func() error { return cfg.RemoveEnvironment(args[0]) },
			"Environment '%s' removed.", args[0])
	},
}

var rmDomainDefaultEnvCmd = &cobra.Command{
	Use:   "default-environment <domain>",
	Short: "Remove a domain's default environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func() error { return cfg.UnsetDomainDefaultEnvironment(args[0]) },
			"Removed default_environment from domain '%s'.", args[0])
	},
}

var rmEnvCmd = &cobra.Command{Use: "env", Short: "Remove environment-scoped configuration"}

var rmEnvPortmapCmd = &cobra.Command{
	Use:   "portmap <environment> <host_port>",
	Short: "Remove a port mapping from an environment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func() error { return cfg.RemoveEnvironmentPortMapping(args[0], args[1]) },
			"Removed port mapping for host port %s from environment '%s'.", args[1], args[0])
	},
}

var rmEnvVolumeCmd = &cobra.Command{
	Use:   "volume <environment> <container_dir> <host_dir>",
	Short: "Remove a volume from an environment",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func() error { return cfg.RemoveEnvironmentVolume(args[0], args[1], args[2]) },
			"Removed volume %s -> %s from environment '%s'.", args[2], args[1], args[0])
	},
}

var rmSvcCmd = &cobra.Command{Use: "svc", Short: "Remove service-scoped configuration"}

var rmSvcPortmapCmd = &cobra.Command{
	Use:   "portmap <domain> <service> <host_port>",
	Short: "Remove a port mapping from a service",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func() error { return cfg.RemoveServicePortMapping(args[0], args[1], args[2]) },
			"Removed port mapping for host port %s from service '%s.%s'.", args[2], args[0], args[1])
	},
}

var rmSvcVolumeCmd = &cobra.Command{
	Use:   "volume <domain> <service> <container_dir> <host_dir>",
	Short: "Remove a volume from a service",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, func() error { return cfg.RemoveServiceVolume(args[0], args[1], args[2], args[3]) },
			"Removed volume %s -> %s from service '%s.%s'.", args[3], args[2], args[0], args[1])
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		out, err := renderConfig(cfg, output)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

// renderConfig encodes c as indented JSON or as YAML.
func renderConfig(c *config.Config, format string) ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	switch format {
	case "", "json":
		return append(data, '\n'), nil
	case "yaml":
		// round-trip through JSON so the YAML keys match the wire format
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("converting config: %w", err)
		}
		return yaml.Marshal(doc)
	}
	return nil, fmt.Errorf("unsupported output format %q (json|yaml)", format)
}

// fieldCommands builds one set and one rm command per string field.
func fieldCommands() {
	for _, f := range config.Fields {
		field := f
		name := flagName(field)

		setEnvCmd.AddCommand(&cobra.Command{
			Use:   name + " <environment> <value>",
			Short: "Set " + string(field) + " on an environment",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return mutate(cmd, func() error { return cfg.SetEnvironmentField(args[0], field, args[1]) },
					"Set %s for environment '%s' to:\n  %s", field, args[0], args[1])
			},
		})
		setSvcCmd.AddCommand(&cobra.Command{
			Use:   name + " <domain> <service> <value>",
			Short: "Set " + string(field) + " on a service",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return mutate(cmd, func() error { return cfg.SetServiceField(args[0], args[1], field, args[2]) },
					"Set %s for service '%s.%s' to:\n  %s", field, args[0], args[1], args[2])
			},
		})
		rmEnvCmd.AddCommand(&cobra.Command{
			Use:   name + " <environment>",
			Short: "Remove " + string(field) + " from an environment",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return mutate(cmd, func() error { return cfg.UnsetEnvironmentField(args[0], field) },
					"Removed %s from environment '%s'.", field, args[0])
			},
		})
		rmSvcCmd.AddCommand(&cobra.Command{
			Use:   name + " <domain> <service>",
			Short: "Remove " + string(field) + " from a service",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return mutate(cmd, func() error { return cfg.UnsetServiceField(args[0], args[1], field) },
					"Removed %s from service '%s.%s'.", field, args[0], args[1])
			},
		})
	}
}

func init() {
	fieldCommands()

	setDomainCmd.AddCommand(setDomainDefaultEnvCmd)
	configSetCmd.AddCommand(setEngineCmd, setPodmanMachineCmd, setURLsInHostsCmd, setEnvCmd, setSvcCmd, setDomainCmd)

	addEnvCmd.AddCommand(addEnvPortmapCmd, addEnvVolumeCmd)
	addSvcCmd.AddCommand(addSvcPortmapCmd, addSvcVolumeCmd)
	configAddCmd.AddCommand(addDomainCmd, addEnvironmentCmd, addEnvCmd, addSvcCmd)

	rmEnvCmd.AddCommand(rmEnvPortmapCmd, rmEnvVolumeCmd)
	rmSvcCmd.AddCommand(rmSvcPortmapCmd, rmSvcVolumeCmd)
	// "rm domain <name>" removes the domain, "rm domain default-environment <name>" one field
	rmDomainCmd.AddCommand(rmDomainDefaultEnvCmd)
	configRmCmd.AddCommand(rmDomainCmd, rmPodmanMachineCmd, rmEnvironmentCmd, rmEnvCmd, rmSvcCmd)

	configShowCmd.Flags().StringP("output", "o", "json", "output format (json|yaml)")

	configCmd.AddCommand(configSetCmd, configAddCmd, configRmCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
