package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gogpu/gridmerge"
)

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "gridmerge %s (%s, %s/%s)\n",
				gridmerge.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return err
		},
	}
}
