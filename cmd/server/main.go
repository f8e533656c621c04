// Application server is the quiz roster API server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/starquake/quizroster/cmd/server/app"
)

func main() {
	ctx := context.Background()
	if err := app.Run(ctx, os.Getenv, os.Stdout, nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
