// Package cli implements the rosterctl commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/starquake/quizroster/internal/rosterclient"
)

// DefaultServer is the server used when neither --server nor ROSTER_SERVER is set.
const DefaultServer = "http://localhost:5000"

// NewRootCmd builds the rosterctl command tree. getenv is consulted for ROSTER_SERVER.
func NewRootCmd(getenv func(string) string) *cobra.Command {
	root := &cobra.Command{
		Use:          "rosterctl",
		Short:        "Manage quiz participants and scores",
		Long:         "rosterctl talks to a quiz roster server: enroll participants, record scores and show the score table.",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("server", "", "Base URL of the roster server (overrides ROSTER_SERVER env var)")

	root.AddCommand(newEnrollCmd(getenv))
	root.AddCommand(newScoreCmd(getenv))
	root.AddCommand(newListCmd(getenv))
	root.AddCommand(newStandingsCmd(getenv))

	return root
}

// newClient returns a client for the server given by --server (highest priority),
// then ROSTER_SERVER, then DefaultServer.
func newClient(cmd *cobra.Command, getenv func(string) string) *rosterclient.Client {
	server, _ := cmd.Flags().GetString("server")
	if server == "" {
		server = getenv("ROSTER_SERVER")
	}
	if server == "" {
		server = DefaultServer
	}

	return rosterclient.New(server, nil)
}
