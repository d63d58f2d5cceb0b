// Command behavior runs the robot behavior engine and its tooling.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := NewApp().Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
