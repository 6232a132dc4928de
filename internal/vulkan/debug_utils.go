package vulkan

/*
#include "debug_utils.h"
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/ibd1279/vks"

	"github.com/ibd1279/vks-examples/tutorial-bootstrap/internal/bootstrap"
)

// vks cannot hand a Go func to the driver as a C function pointer, so the
// messenger is registered through a C trampoline that calls back into
// goDebugUtilsCallback with a cgo.Handle to the bootstrap.DebugCallback.

//export goDebugUtilsCallback
func goDebugUtilsCallback(
	severity C.VkDebugUtilsMessageSeverityFlagBitsEXT,
	types C.VkDebugUtilsMessageTypeFlagsEXT,
	message *C.char,
	userData C.uintptr_t,
) C.VkBool32 {
	callback, ok := cgo.Handle(userData).Value().(bootstrap.DebugCallback)
	if !ok {
		return C.VK_FALSE
	}
	if callback(bootstrap.Severity(severity), bootstrap.MessageType(types), C.GoString(message)) {
		return C.VK_TRUE
	}
	return C.VK_FALSE
}

type debugMessenger struct {
	getProcAddr C.PFN_vkGetInstanceProcAddr
	instance    C.VkInstance
	messenger   C.VkDebugUtilsMessengerEXT
	handle      cgo.Handle
}

func createDebugMessenger(procAddr unsafe.Pointer, instance vks.Instance, callback bootstrap.DebugCallback) (*debugMessenger, error) {
	if procAddr == nil {
		return nil, errors.New("vkGetInstanceProcAddr is not available")
	}

	m := &debugMessenger{
		getProcAddr: C.PFN_vkGetInstanceProcAddr(procAddr),
		instance:    *(*C.VkInstance)(unsafe.Pointer(&instance)),
		handle:      cgo.NewHandle(callback),
	}
	result := C.createDebugUtilsMessenger(m.getProcAddr, m.instance, C.uintptr_t(m.handle), &m.messenger)
	if result != C.VK_SUCCESS {
		m.handle.Delete()
		return nil, errors.Newf("vkCreateDebugUtilsMessengerEXT returned %d", int(result))
	}
	return m, nil
}

func (m *debugMessenger) Destroy() {
	C.destroyDebugUtilsMessenger(m.getProcAddr, m.instance, m.messenger)
	m.handle.Delete()
}
