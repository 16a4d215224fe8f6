// SPDX-License-Identifier: MPL-2.0

package buildfile

import (
	"fmt"

	"github.com/mardroemmar/buildlogic/pkg/project"
)

const starterTemplate = `// Build description for %[1]s.

root_name: %[1]q

project: {
	group:   "com.example"
	version: "0.1.0"
	description: ""
	license: "MIT"
}

// Conventions applied to the root project itself.
root_conventions: []

modules: [
	// { path: "core", conventions: ["te.base-conventions"] },
	// { path: "extras/time", name: "time-extras" },
]
`

// StarterSettings returns a settings.cue skeleton for a new project.
func StarterSettings(rootName string) ([]byte, error) {
	if err := project.ExternalName(rootName).Validate(); err != nil {
		return nil, fmt.Errorf("root name: %w", err)
	}
	return fmt.Appendf(nil, starterTemplate, rootName), nil
}
