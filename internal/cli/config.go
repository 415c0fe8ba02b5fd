package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds the global flags shared by every subcommand
type Config struct {
	// ServerURL is the API used by the remote commands
	ServerURL string
	// ConfigPath is the YAML file read by the local commands
	ConfigPath string
	Output     string
	Verbose    bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: "http://localhost:8080",
		Output:    "text",
	}
}

// resolve fills c from the global flags, falling back to WORDMASTER_SERVER,
// WORDMASTER_CONFIG, WORDMASTER_OUTPUT and WORDMASTER_VERBOSE for flags
// that were not given
func (c *Config) resolve(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix("WORDMASTER")
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	c.ServerURL = v.GetString("server")
	c.ConfigPath = v.GetString("config")
	c.Output = v.GetString("output")
	c.Verbose = v.GetBool("verbose")

	switch c.Output {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unknown output format %q", c.Output)
	}
}
