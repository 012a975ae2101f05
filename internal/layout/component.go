// Package layout holds pure, dependency-free helpers shared by the EBIN
// build pipeline: the component-type/relocation-type enums that make up
// the on-disk header, byte-alignment arithmetic, and symbol-name
// suggestion for diagnostics. Nothing in this package touches the
// filesystem or an external process.
package layout

import (
	"fmt"
	"strings"
)

// ComponentType identifies the kind of EBIN component, stored verbatim
// in the header's type field.
type ComponentType uint16

const (
	ComponentUnknown ComponentType = 0
	ComponentCPU     ComponentType = 1
	ComponentVideo   ComponentType = 2
	ComponentAudio   ComponentType = 3
	ComponentIO      ComponentType = 4
)

func (t ComponentType) String() string {
	switch t {
	case ComponentCPU:
		return "cpu"
	case ComponentVideo:
		return "video"
	case ComponentAudio:
		return "audio"
	case ComponentIO:
		return "io"
	default:
		return "unknown"
	}
}

// ParseComponentType parses the -t flag value into a ComponentType.
func ParseComponentType(s string) (ComponentType, error) {
	switch strings.ToLower(s) {
	case "cpu":
		return ComponentCPU, nil
	case "video":
		return ComponentVideo, nil
	case "audio":
		return ComponentAudio, nil
	case "io":
		return ComponentIO, nil
	default:
		return ComponentUnknown, fmt.Errorf("unsupported component type: %s (supported: cpu, video, audio, io)", s)
	}
}
