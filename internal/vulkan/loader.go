// Package vulkan implements the bootstrap graphics API on vks.
//
// vks.Init must have succeeded before any Loader method is called.
package vulkan

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/ibd1279/vks"

	"github.com/ibd1279/vks-examples/tutorial-bootstrap/internal/bootstrap"
)

// Loader is the instance-level entry point of the Vulkan loader.
type Loader struct {
	// procAddr resolves vkGetInstanceProcAddr, used for extension commands
	// that vks cannot call with a Go callback.
	procAddr func() unsafe.Pointer
}

var _ bootstrap.Graphics = &Loader{}

// NewLoader returns a Loader. procAddr is consulted lazily, after the window
// system has loaded the Vulkan library.
func NewLoader(procAddr func() unsafe.Pointer) *Loader {
	return &Loader{procAddr: procAddr}
}

func (l *Loader) InstanceVersion() (bootstrap.Version, error) {
	var version uint32
	if result := vks.EnumerateInstanceVersion(&version); result.IsError() {
		return bootstrap.Version{}, result.AsErr()
	}
	v := vks.ApiVersion(version)
	return bootstrap.Version{Major: v.Major(), Minor: v.Minor(), Patch: v.Patch()}, nil
}

func (l *Loader) InstanceLayers() ([]string, error) {
	var count uint32
	result := vks.EnumerateInstanceLayerProperties(&count, nil)
	if result.IsError() {
		return nil, result.AsErr()
	}
	layerProperties := make([]vks.LayerProperties, count)
	result = vks.EnumerateInstanceLayerProperties(&count, layerProperties)
	if result.IsError() {
		return nil, result.AsErr()
	}

	names := make([]string, 0, count)
	for _, layer := range layerProperties[:count] {
		names = append(names, vks.ToString(layer.LayerName()))
	}
	return names, nil
}

func (l *Loader) InstanceExtensions() ([]string, error) {
	arp := vks.NewAutoReleaser()
	defer arp.Release()

	// An empty layer name asks for the loader's own extensions.
	ln := vks.NewCStr(arp, "")

	var count uint32
	result := vks.EnumerateInstanceExtensionProperties(ln, &count, nil)
	if result.IsError() {
		return nil, result.AsErr()
	}
	extensionProperties := make([]vks.ExtensionProperties, count)
	result = vks.EnumerateInstanceExtensionProperties(ln, &count, extensionProperties)
	if result.IsError() {
		return nil, result.AsErr()
	}

	names := make([]string, 0, count)
	for _, ext := range extensionProperties[:count] {
		names = append(names, vks.ToString(ext.ExtensionName()))
	}
	return names, nil
}

func (l *Loader) CreateInstance(info bootstrap.InstanceInfo) (bootstrap.Instance, error) {
	arp := vks.NewAutoReleaser()
	defer arp.Release()

	id := info.Identity
	appInfo := vks.CPtr(arp, &vks.ApplicationInfo{},
		vks.SetEngine(arp, id.EngineName, encodeVersion(id.EngineVersion)),
		vks.SetApplication(arp, id.ApplicationName, encodeVersion(id.ApplicationVersion)),
		vks.SetDefaultSType,
		func(in *vks.ApplicationInfo) {
			in.SetApiVersion(uint32(encodeVersion(id.APIVersion)))
		},
	)
	createInfo := vks.CPtr(arp, &vks.InstanceCreateInfo{},
		vks.SetInstanceLayers(arp, info.Layers),
		vks.SetInstanceExtensions(arp, info.Extensions),
		vks.SetDefaultSType,
		func(in *vks.InstanceCreateInfo) {
			in.SetPApplicationInfo(appInfo)
			if info.Portability {
				in.SetFlags(vks.InstanceCreateFlags(vks.VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR))
			}
		},
	)

	var vkInstance vks.Instance
	if result := vks.CreateInstance(createInfo, nil, &vkInstance); result.IsError() {
		return nil, result.AsErr()
	}
	if vkInstance == vks.NullInstance {
		return nil, errors.New("vkCreateInstance returned a null instance")
	}

	return &Instance{
		facade:   vks.MakeInstanceFacade(vkInstance),
		procAddr: l.procAddr,
	}, nil
}

// Instance is a created VkInstance.
type Instance struct {
	facade   vks.InstanceFacade
	procAddr func() unsafe.Pointer
}

var _ bootstrap.Instance = &Instance{}

func (i *Instance) CreateDebugMessenger(callback bootstrap.DebugCallback) (bootstrap.DebugMessenger, error) {
	var procAddr unsafe.Pointer
	if i.procAddr != nil {
		procAddr = i.procAddr()
	}
	messenger, err := createDebugMessenger(procAddr, i.facade.H, callback)
	if err != nil {
		return nil, err
	}
	return messenger, nil
}

func (i *Instance) Destroy() {
	if i.facade.H == vks.NullInstance {
		return
	}
	i.facade.DestroyInstance(nil)
	i.facade.H = vks.NullInstance
}

// encodeVersion packs v with variant 0. Callers keep v within the field
// widths; see bootstrap.Version.Validate.
func encodeVersion(v bootstrap.Version) vks.ApiVersion {
	return vks.MakeApiVersion(0, int(v.Major), int(v.Minor), int(v.Patch))
}
