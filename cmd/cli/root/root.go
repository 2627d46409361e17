package root

import (
	"github.com/spf13/cobra"
)

// RootCmd is the top-level "blog" command.
var RootCmd = &cobra.Command{
	Use:           "blog",
	Short:         "Blog API CLI",
	Long:          "Command line interface for interacting with the Blog API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func GetRoot() *cobra.Command {
	return RootCmd
}
