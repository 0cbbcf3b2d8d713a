// Command mortonfilter is the external collaborator the morton package
// itself does not implement: it supplies input items, reads an output file
// path from configuration, and writes the serialized filter to disk.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anastasiam/mortonfilter/cmd/mortonfilter/commands"
)

func main() {
	root := &cobra.Command{
		Use:   "mortonfilter",
		Short: "Build Morton filters from the command line",
	}
	root.AddCommand(commands.NewBuildCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
