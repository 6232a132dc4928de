package bootstrap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Instance extension names the bootstrap may request on top of the ones the
// windowing subsystem requires.
const (
	DebugUtilsExtensionName             = "VK_EXT_debug_utils"
	PortabilityEnumerationExtensionName = "VK_KHR_portability_enumeration"
)

// Windowing is the process-wide window system. Init must succeed before any
// other call, and Terminate releases everything Init acquired.
type Windowing interface {
	Init() error
	// CreateWindow opens a non-resizable window without a client API context.
	CreateWindow(width, height int, title string) (Window, error)
	// PollEvents processes pending events and returns immediately.
	PollEvents()
	Terminate()
}

// Window is a single OS window owned by the application.
type Window interface {
	ShouldClose() bool
	// RequiredInstanceExtensions lists the instance extensions needed to
	// present to this window.
	RequiredInstanceExtensions() []string
	Destroy()
}

// Graphics is the entry point of the graphics API, before an instance exists.
type Graphics interface {
	InstanceVersion() (Version, error)
	InstanceLayers() ([]string, error)
	InstanceExtensions() ([]string, error)
	CreateInstance(info InstanceInfo) (Instance, error)
}

// Instance is a created graphics instance.
type Instance interface {
	CreateDebugMessenger(callback DebugCallback) (DebugMessenger, error)
	Destroy()
}

// DebugMessenger is a registered diagnostics callback.
type DebugMessenger interface {
	Destroy()
}

// Version is a graphics API style major.minor.patch triple.
type Version struct {
	Major uint32
	Minor uint32
	Patch uint32
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ParseVersion reads "major.minor.patch". Missing trailing parts are zero;
// anything else in the string is an error.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return Version{}, errors.Newf("invalid version %q", s)
	}
	var fields [3]uint32
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return Version{}, errors.Newf("invalid version %q", s)
		}
		fields[i] = uint32(n)
	}
	return Version{Major: fields[0], Minor: fields[1], Patch: fields[2]}, nil
}

// Validate checks that v fits the 7/10/12-bit fields of a packed API version.
func (v Version) Validate() error {
	if v.Major > 0x7f || v.Minor > 0x3ff || v.Patch > 0xfff {
		return errors.Newf("version %s out of range (max 127.1023.4095)", v)
	}
	return nil
}

// Identity describes the application to the graphics driver.
type Identity struct {
	ApplicationName    string
	ApplicationVersion Version
	EngineName         string
	EngineVersion      Version
	APIVersion         Version
}

// Validate checks every version in id.
func (id Identity) Validate() error {
	if err := id.ApplicationVersion.Validate(); err != nil {
		return errors.Wrap(err, "application version")
	}
	if err := id.EngineVersion.Validate(); err != nil {
		return errors.Wrap(err, "engine version")
	}
	return errors.Wrap(id.APIVersion.Validate(), "api version")
}

// DefaultIdentity is the identity used when nothing else is configured.
func DefaultIdentity() Identity {
	return Identity{
		ApplicationName:    "Hello Triangle",
		ApplicationVersion: Version{1, 0, 0},
		EngineName:         "No Engine",
		EngineVersion:      Version{1, 0, 0},
		APIVersion:         Version{1, 0, 0},
	}
}

// InstanceInfo carries everything needed to create an instance.
type InstanceInfo struct {
	Identity   Identity
	Extensions []string
	Layers     []string
	// Portability sets the enumerate-portability create flag.
	Portability bool
}
