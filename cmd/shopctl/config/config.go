// Package config holds shopctl's persisted CLI configuration: named
// contexts (one per platform installation) and the currently selected one,
// kubectl style.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	AppName        = "shopctl"
	configFileName = "config"
	configFileType = "yaml"
)

// Context is a single target platform: its API endpoint plus the local
// session state files scoped to it.
type Context struct {
	Name           string `mapstructure:"name"`
	ServerEndpoint string `mapstructure:"server_endpoint"`
	// CookieJar is the per-context session cookie file. Defaults to
	// cookies-<name>.json next to the config file.
	CookieJar string `mapstructure:"cookie_jar,omitempty"`
}

// CLIConfig is the whole persisted configuration.
type CLIConfig struct {
	CurrentContext string              `mapstructure:"current_context"`
	Contexts       map[string]*Context `mapstructure:"contexts"`
}

var (
	// GlobalConfig is populated by InitConfig.
	GlobalConfig *CLIConfig
	// CfgFile is the config file path; a flag may preset it.
	CfgFile string
)

// Dir returns the shopctl configuration directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, "."+AppName), nil
}

// InitConfig loads the config file, creating the config directory when
// missing. A missing file is not an error; it is created on first save.
func InitConfig() error {
	if CfgFile != "" {
		viper.SetConfigFile(CfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create config directory %s: %w", dir, err)
		}
		viper.AddConfigPath(dir)
		viper.SetConfigName(configFileName)
		viper.SetConfigType(configFileType)
		CfgFile = filepath.Join(dir, configFileName+"."+configFileType)
	}
	viper.AutomaticEnv()

	GlobalConfig = &CLIConfig{Contexts: make(map[string]*Context)}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read config file: %w", err)
		}
		return nil
	}
	CfgFile = viper.ConfigFileUsed()

	if err := viper.Unmarshal(GlobalConfig); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	if GlobalConfig.Contexts == nil {
		GlobalConfig.Contexts = make(map[string]*Context)
	}
	return nil
}

// SaveConfig writes GlobalConfig back to the config file.
func SaveConfig() error {
	if CfgFile == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		CfgFile = filepath.Join(dir, configFileName+"."+configFileType)
	}
	if err := os.MkdirAll(filepath.Dir(CfgFile), 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	settings := map[string]interface{}{
		"current_context": GlobalConfig.CurrentContext,
		"contexts":        GlobalConfig.Contexts,
	}
	if err := viper.MergeConfigMap(settings); err != nil {
		return fmt.Errorf("merge config for saving: %w", err)
	}
	if err := viper.WriteConfigAs(CfgFile); err != nil {
		return fmt.Errorf("save config to %s: %w", CfgFile, err)
	}
	return nil
}

// GetCurrentContext returns the selected context. With exactly one context
// defined and none selected, that one is used.
func GetCurrentContext() (*Context, error) {
	if GlobalConfig == nil || GlobalConfig.Contexts == nil {
		return nil, errors.New("config not initialized")
	}
	name := GlobalConfig.CurrentContext
	if name == "" {
		if len(GlobalConfig.Contexts) == 1 {
			for n := range GlobalConfig.Contexts {
				name = n
			}
		} else {
			return nil, errors.New("no current context set; run 'shopctl config use-context <name>'")
		}
	}
	ctx, ok := GlobalConfig.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context %q not found", name)
	}
	return ctx, nil
}

// CookieJarPath resolves the context's cookie jar file.
func (c *Context) CookieJarPath() (string, error) {
	if c.CookieJar != "" {
		return c.CookieJar, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cookies-"+c.Name+".json"), nil
}

// DraftsPath resolves the local product draft database file.
func DraftsPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "drafts.db"), nil
}
