package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/wordmaster/internal/factory"
)

// localApp wires an in-process application from the host configuration.
// The caller closes it.
func (a *app) localApp(cmd *cobra.Command) (*factory.App, error) {
	settings, err := a.settings()
	if err != nil {
		return nil, err
	}
	return factory.New(cmd.Context(), settings.FactoryConfig(a.logger(cmd, settings.Level())))
}
