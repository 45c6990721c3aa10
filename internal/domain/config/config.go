// Package config loads kindling settings from environment variables
// with sensible defaults for development containers.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Defaults for a fresh development container.
const (
	DefaultClusterName   = "codespace-kind"
	DefaultDaemonTimeout = 60 * time.Second
)

// Environment variable keys.
const (
	envClusterName   = "KIND_CLUSTER_NAME"
	envDaemonTimeout = "KINDLING_DAEMON_TIMEOUT"
	envAddons        = "KINDLING_ADDONS"
	envVerbose       = "KINDLING_VERBOSE"
	envJSONLog       = "KINDLING_JSON_LOG"
	envKubeconfig    = "KUBECONFIG"
)

// ErrInvalidConfig indicates a setting that cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the resolved settings for one run.
type Config struct {
	clusterName   string
	daemonTimeout time.Duration
	installAddons bool
	verbose       bool
	jsonLog       bool
	kubeconfig    string
}

// Load resolves configuration from the environment, falling back to
// defaults. Flag values set later override via the With* builders.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("cluster_name", DefaultClusterName)
	v.SetDefault("daemon_timeout", DefaultDaemonTimeout)
	v.SetDefault("install_addons", true)
	v.SetDefault("verbose", false)
	v.SetDefault("json_log", false)
	v.SetDefault("kubeconfig", "")

	bindings := map[string]string{
		"cluster_name":   envClusterName,
		"daemon_timeout": envDaemonTimeout,
		"install_addons": envAddons,
		"verbose":        envVerbose,
		"json_log":       envJSONLog,
		"kubeconfig":     envKubeconfig,
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	cfg := Config{
		clusterName:   v.GetString("cluster_name"),
		daemonTimeout: v.GetDuration("daemon_timeout"),
		installAddons: v.GetBool("install_addons"),
		verbose:       v.GetBool("verbose"),
		jsonLog:       v.GetBool("json_log"),
		kubeconfig:    v.GetString("kubeconfig"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.clusterName == "" {
		return fmt.Errorf("%w: cluster name cannot be empty", ErrInvalidConfig)
	}
	if c.daemonTimeout <= 0 {
		return fmt.Errorf("%w: daemon timeout must be positive, got %s",
			ErrInvalidConfig, c.daemonTimeout)
	}
	return nil
}

// ClusterName returns the kind cluster name to provision.
func (c Config) ClusterName() string {
	return c.clusterName
}

// DaemonTimeout returns how long to wait for the Docker daemon.
func (c Config) DaemonTimeout() time.Duration {
	return c.daemonTimeout
}

// InstallAddons reports whether cluster add-ons should be applied.
func (c Config) InstallAddons() bool {
	return c.installAddons
}

// Verbose reports whether debug logging is enabled.
func (c Config) Verbose() bool {
	return c.verbose
}

// JSONLog reports whether logs should be emitted as JSON.
func (c Config) JSONLog() bool {
	return c.jsonLog
}

// Kubeconfig returns the kubeconfig path, empty for the default.
func (c Config) Kubeconfig() string {
	return c.kubeconfig
}

// WithClusterName returns a copy with the cluster name overridden.
func (c Config) WithClusterName(name string) Config {
	if name != "" {
		c.clusterName = name
	}
	return c
}

// WithDaemonTimeout returns a copy with the daemon timeout overridden.
func (c Config) WithDaemonTimeout(d time.Duration) Config {
	if d > 0 {
		c.daemonTimeout = d
	}
	return c
}

// WithInstallAddons returns a copy with add-on installation toggled.
func (c Config) WithInstallAddons(enabled bool) Config {
	c.installAddons = enabled
	return c
}

// WithVerbose returns a copy with verbose logging toggled.
func (c Config) WithVerbose(enabled bool) Config {
	c.verbose = enabled
	return c
}

// WithJSONLog returns a copy with JSON logging toggled.
func (c Config) WithJSONLog(enabled bool) Config {
	c.jsonLog = enabled
	return c
}

// WithKubeconfig returns a copy with the kubeconfig path overridden.
func (c Config) WithKubeconfig(path string) Config {
	if path != "" {
		c.kubeconfig = path
	}
	return c
}
