// Command focusgate runs focusgate's terminal surfaces.
package main

import (
	"os"

	"github.com/Iron-Ham/focusgate/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
