// File: cmd/formpilot/main.go
package main

import (
	"github.com/xkilldash9x/formpilot-cli/cmd"
)

// main mirrors the root entry point so the CLI can be installed with
// go install github.com/xkilldash9x/formpilot-cli/cmd/formpilot@latest.
func main() {
	cmd.Execute()
}
