package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	serve := newServeCommand()

	root := &cobra.Command{
		Use:           "barber-agenda",
		Short:         "Agenda e disponibilidade para barbearias.",
		SilenceUsage:  true,
		SilenceErrors: true,
		// sem subcomando sobe o servidor, como no deploy antigo
		RunE: serve.RunE,
	}

	root.AddCommand(
		serve,
		newRemindersCommand(),
		newMigrateCommand(),
	)

	return root
}
