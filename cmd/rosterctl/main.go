// Command rosterctl enrolls participants, records scores and prints the roster of a running quiz roster server.
package main

import (
	"os"

	"github.com/starquake/quizroster/cmd/rosterctl/cli"
)

func main() {
	if err := cli.NewRootCmd(os.Getenv).Execute(); err != nil {
		os.Exit(1)
	}
}
