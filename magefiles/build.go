//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the viewer binary into bin/.
func (Build) Viewer() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/fieldscope", "."), withStream()); err != nil {
		return err
	}
	return nil
}

type Test mg.Namespace

// Runs every test that does not need a GL context.
func (Test) All() error {
	if _, err := executeCmd("go", withArgs("test", "./engine/...", "./testbed/..."), withStream()); err != nil {
		return err
	}
	return nil
}
