// Command podgen generates builders, getters, setters, field accessors and
// constructors for Go structs. It is meant to run from go:generate:
//
//	//go:generate podgen --generators builder,getters
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/goliatone/go-podgen/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Execute(ctx)
	stop()
	if err == nil {
		return
	}
	if !errors.Is(err, cli.ErrDiagnostics) {
		fmt.Fprintln(os.Stderr, "podgen:", err)
	}
	os.Exit(1)
}
