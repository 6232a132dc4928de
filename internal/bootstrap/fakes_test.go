package bootstrap

import "github.com/cockroachdb/errors"

// recorder collects the collaborator calls in the order they happen.
type recorder struct {
	calls []string
}

func (r *recorder) record(call string) {
	r.calls = append(r.calls, call)
}

func (r *recorder) count(call string) int {
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

type fakeWindowing struct {
	rec        *recorder
	initErr    error
	createErr  error
	extensions []string
	// closeAfter is the number of polls after which the window asks to close.
	closeAfter int

	polls  int
	window *fakeWindow
}

func (f *fakeWindowing) Init() error {
	f.rec.record("windowing.Init")
	return f.initErr
}

func (f *fakeWindowing) CreateWindow(width, height int, title string) (Window, error) {
	f.rec.record("windowing.CreateWindow")
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.window = &fakeWindow{parent: f, width: width, height: height, title: title}
	return f.window, nil
}

func (f *fakeWindowing) PollEvents() {
	f.polls++
}

func (f *fakeWindowing) Terminate() {
	f.rec.record("windowing.Terminate")
}

type fakeWindow struct {
	parent *fakeWindowing
	width  int
	height int
	title  string
}

func (w *fakeWindow) ShouldClose() bool {
	return w.parent.polls >= w.parent.closeAfter
}

func (w *fakeWindow) RequiredInstanceExtensions() []string {
	return w.parent.extensions
}

func (w *fakeWindow) Destroy() {
	w.parent.rec.record("window.Destroy")
}

type fakeGraphics struct {
	rec          *recorder
	version      Version
	versionErr   error
	layers       []string
	layersErr    error
	extensions   []string
	extErr       error
	createErr    error
	messengerErr error

	created  *InstanceInfo
	callback DebugCallback
}

func (g *fakeGraphics) InstanceVersion() (Version, error) {
	return g.version, g.versionErr
}

func (g *fakeGraphics) InstanceLayers() ([]string, error) {
	g.rec.record("graphics.InstanceLayers")
	return g.layers, g.layersErr
}

func (g *fakeGraphics) InstanceExtensions() ([]string, error) {
	return g.extensions, g.extErr
}

func (g *fakeGraphics) CreateInstance(info InstanceInfo) (Instance, error) {
	g.rec.record("graphics.CreateInstance")
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created = &info
	return &fakeInstance{parent: g}, nil
}

type fakeInstance struct {
	parent *fakeGraphics
}

func (i *fakeInstance) CreateDebugMessenger(callback DebugCallback) (DebugMessenger, error) {
	i.parent.rec.record("instance.CreateDebugMessenger")
	if i.parent.messengerErr != nil {
		return nil, i.parent.messengerErr
	}
	i.parent.callback = callback
	return &fakeMessenger{rec: i.parent.rec}, nil
}

func (i *fakeInstance) Destroy() {
	i.parent.rec.record("instance.Destroy")
}

type fakeMessenger struct {
	rec *recorder
}

func (m *fakeMessenger) Destroy() {
	m.rec.record("messenger.Destroy")
}

var errBoom = errors.New("boom")

// newFakes returns collaborators that succeed and close after one poll.
func newFakes() (*recorder, *fakeWindowing, *fakeGraphics) {
	rec := &recorder{}
	windowing := &fakeWindowing{
		rec:        rec,
		extensions: []string{"VK_KHR_surface", "VK_KHR_xcb_surface"},
		closeAfter: 1,
	}
	graphics := &fakeGraphics{
		rec:        rec,
		version:    Version{1, 3, 250},
		layers:     []string{"VK_LAYER_KHRONOS_validation", "VK_LAYER_MESA_device_select"},
		extensions: []string{"VK_KHR_surface", "VK_EXT_debug_utils"},
	}
	return rec, windowing, graphics
}
