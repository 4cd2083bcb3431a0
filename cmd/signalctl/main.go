package main

//
// signalctl queries a signal snapshot from the command line, using the
// same directory and lookup code as the server.
//

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/iliyamo/lagos-signal-directory/internal/config"
	"github.com/iliyamo/lagos-signal-directory/internal/logger"
)

func main() {
	config.LoadEnv()
	if err := newRootCommand().Execute(); err != nil {
		logger.L().Error(err)
		os.Exit(1)
	}
}

// newRootCommand builds the command tree.  Tests call it directly.
func newRootCommand() *cobra.Command {
	s := &state{}
	root := &cobra.Command{
		Use:           "signalctl",
		Short:         "Query Lagos mobile network signal strength data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&s.file, "file", "", "snapshot file (default DATA_FILE or data/locations.json)")
	root.PersistentFlags().StringVar(&s.source, "source", "", "directory source: file, mysql or postgres (default DIRECTORY_SOURCE)")
	root.AddCommand(
		locationsSubcommand(s),
		signalSubcommand(s),
		searchSubcommand(s),
		summarySubcommand(s),
		validateSubcommand(s),
	)
	return root
}
