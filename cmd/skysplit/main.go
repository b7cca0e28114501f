package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"skysplit/internal/services"
)

const (
	exitRunFailure = 1
	exitUsage      = 2
	exitConfig     = 3
)

func main() {
	_ = godotenv.Load()

	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return exitUsage
	case errors.Is(err, services.ErrConfiguration):
		return exitConfig
	default:
		return exitRunFailure
	}
}
