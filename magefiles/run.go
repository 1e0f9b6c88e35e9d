//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds the host and runs it against ./assets, reloading on SIGHUP.
func (Run) Demo() error {
	mg.Deps(Build.Binary)
	fmt.Println("Run demo host...")
	if _, err := executeCmd("bin/matkit", withArgs("-config", "materials.toml", "-base", "assets", "-watch-signals"), withStream()); err != nil {
		return err
	}
	return nil
}

// Exports a single material as WebP. Usage: mage run:export <name>
func (Run) Export(name string) error {
	mg.Deps(Build.Binary)
	if _, err := executeCmd("bin/matkit", withArgs("-config", "materials.toml", "-base", "assets", "-export", name), withStream()); err != nil {
		return err
	}
	return nil
}
