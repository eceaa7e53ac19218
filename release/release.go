package release

import (
	"fmt"

	"github.com/carlmjohnson/versioninfo"
)

const Name = "enumcomplete"

func Version() string {
	return fmt.Sprintf("%s %s", versioninfo.Short(), versioninfo.Version)
}

// ServerVersion is the bare revision reported to LSP clients.
func ServerVersion() string {
	return versioninfo.Short()
}
