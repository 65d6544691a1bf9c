package main

import (
	"errors"
	"fmt"
	"os"

	"FinBeta/internal/domain/models"
)

// Exit codes, one per error kind.
const (
	exitOK                  = 0
	exitOther               = 1
	exitFetch               = 2
	exitInsufficientData    = 3
	exitUnsupportedInterval = 4
	exitRegression          = 5
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, models.ErrFetch):
		return exitFetch
	case errors.Is(err, models.ErrInsufficientData):
		return exitInsufficientData
	case errors.Is(err, models.ErrUnsupportedInterval):
		return exitUnsupportedInterval
	case errors.Is(err, models.ErrRegression):
		return exitRegression
	default:
		return exitOther
	}
}
