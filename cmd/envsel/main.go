package main

import (
	"errors"
	"os"

	"github.com/bianoble/envsel/cmd/envsel/cmd"
	"github.com/bianoble/envsel/pkg/envsel"
)

func main() {
	if err := cmd.Execute(); err != nil {
		var exit *envsel.ExitCodeError
		if errors.As(err, &exit) {
			os.Exit(exit.Code)
		}
		os.Exit(1)
	}
}
