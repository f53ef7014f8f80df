package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/org/strata/pkg/bindings"
)

// newBindingsCommand creates the bindings subcommand
func newBindingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bindings",
		Short: "Inspect the bindings manifest",
	}

	cmd.AddCommand(newBindingsValidateCommand())
	cmd.AddCommand(newBindingsListCommand())

	return cmd
}

func newBindingsValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the manifest without connecting anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := bindings.Load(manifestPath)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d binding(s) OK\n", manifestPath, len(m.Bindings))
			return nil
		},
	}
}

func newBindingsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the manifest's bindings and their types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := bindings.Load(manifestPath)
			if err != nil {
				return err
			}
			for _, b := range m.Bindings {
				fmt.Printf("%-20s %s\n", b.Name, b.Type)
			}
			return nil
		},
	}
}
