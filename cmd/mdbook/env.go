package main

import (
	"io"
	"os"
	"time"

	mdbook "github.com/alnah/go-mdbook"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	// Runner overrides the converter process runner; nil uses the default.
	Runner mdbook.CommandRunner
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
