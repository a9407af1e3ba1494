// main is the entry point of the commpulse CLI.
package main

import (
	"github.com/huangsam/commpulse/cmd"
	"github.com/huangsam/commpulse/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
}
