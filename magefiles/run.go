//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Run mg.Namespace

// View starts the terminal viewer on the default scene.
func (Run) View() error {
	mg.Deps(Build.Binary)
	return sh.RunV(binary, "view")
}

// Snapshot renders the default scene to frame.png.
func (Run) Snapshot() error {
	mg.Deps(Build.Binary)
	return sh.RunV(binary, "snapshot", "--frames", "30", "--out", "frame.png")
}
