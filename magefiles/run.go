//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the viewer with the config in the working directory, if any.
func (Run) Viewer() error {
	mg.Deps(Build.Viewer)
	args := []string{}
	if fileExists("fieldscope.toml") {
		args = append(args, "-config", "fieldscope.toml")
	}
	fmt.Println("Run viewer...")
	if _, err := executeCmd("bin/fieldscope", withArgs(args...), withStream()); err != nil {
		return err
	}
	return nil
}
