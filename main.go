// Command boostctl is the entrypoint for the Cobra CLI defined in cmd/root.go.
package main

import (
	"github.com/inference-sim/boostctl/cmd"
)

func main() {
	cmd.Execute()
}
