// cmd/inkwell/main.go
package main

import (
	"context"
	"os"

	"github.com/dalemusser/inkwell/app"
)

func main() {
	if err := app.Run(context.Background(), os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
