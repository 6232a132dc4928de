package bootstrap

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600
	DefaultTitle  = "Vulkan Test"
)

// DefaultValidationLayers are the layers required when validation is enabled.
var DefaultValidationLayers = []string{"VK_LAYER_KHRONOS_validation"}

// Options configures an Application. Zero values fall back to the defaults
// above, stdout, stderr and a no-op logger.
type Options struct {
	Width    int
	Height   int
	Title    string
	Identity Identity

	EnableValidation bool
	ValidationLayers []string
	// ListLayers prints the available instance layers before instance creation.
	ListLayers bool
	// Portability requests portability enumeration, needed on MoltenVK.
	Portability bool

	Out         io.Writer
	Diagnostics io.Writer
	Colorize    bool
	Logger      *zap.Logger
}

// Application owns the window, the graphics instance and, with validation
// enabled, the debug messenger.
type Application struct {
	windowing Windowing
	graphics  Graphics

	width            int
	height           int
	title            string
	identity         Identity
	enableValidation bool
	validationLayers []string
	listLayers       bool
	portability      bool

	out         io.Writer
	diagnostics *DiagnosticWriter
	logger      *zap.Logger

	window         Window
	instance       Instance
	debugMessenger DebugMessenger

	state    State
	releases releaseStack
}

// New returns an uninitialized Application. Nothing is acquired until Run.
func New(windowing Windowing, graphics Graphics, opts Options) *Application {
	app := &Application{
		windowing:        windowing,
		graphics:         graphics,
		width:            opts.Width,
		height:           opts.Height,
		title:            opts.Title,
		identity:         opts.Identity,
		enableValidation: opts.EnableValidation,
		validationLayers: append([]string(nil), opts.ValidationLayers...),
		listLayers:       opts.ListLayers,
		portability:      opts.Portability,
		out:              opts.Out,
		logger:           opts.Logger,
	}
	if app.width <= 0 {
		app.width = DefaultWidth
	}
	if app.height <= 0 {
		app.height = DefaultHeight
	}
	if app.title == "" {
		app.title = DefaultTitle
	}
	if app.identity == (Identity{}) {
		app.identity = DefaultIdentity()
	}
	if len(app.validationLayers) == 0 {
		app.validationLayers = append([]string(nil), DefaultValidationLayers...)
	}
	if app.out == nil {
		app.out = os.Stdout
	}
	if app.logger == nil {
		app.logger = zap.NewNop()
	}
	diag := opts.Diagnostics
	if diag == nil {
		diag = os.Stderr
	}
	app.diagnostics = NewDiagnosticWriter(diag, opts.Colorize)
	return app
}

// State reports where the application is in its lifecycle.
func (app *Application) State() State {
	return app.state
}

// Run initializes the window and the graphics instance, polls events until
// the window is asked to close, then releases everything. Handles acquired
// before a failure are released before Run returns the failure.
func (app *Application) Run() error {
	defer app.cleanup()

	if err := app.initWindow(); err != nil {
		return err
	}
	if err := app.initVulkan(); err != nil {
		return err
	}
	app.mainLoop()
	return nil
}

func (app *Application) setState(s State) {
	app.logger.Debug("state change",
		zap.Stringer("from", app.state),
		zap.Stringer("to", s))
	app.state = s
}

func (app *Application) initWindow() error {
	if err := app.windowing.Init(); err != nil {
		return fail(ErrWindowInitFailed, err, "initialize windowing subsystem")
	}
	app.releases.push("windowing", app.windowing.Terminate)

	window, err := app.windowing.CreateWindow(app.width, app.height, app.title)
	if err != nil {
		return fail(ErrWindowInitFailed, err, "create window")
	}
	app.window = window
	app.releases.push("window", func() {
		window.Destroy()
		app.window = nil
	})

	app.logger.Debug("window created",
		zap.Int("width", app.width),
		zap.Int("height", app.height),
		zap.String("title", app.title))
	app.setState(StateWindowReady)
	return nil
}

func (app *Application) initVulkan() error {
	app.reportApiVersion()

	if err := app.createInstance(); err != nil {
		return err
	}
	if err := app.setupDebugMessenger(); err != nil {
		return err
	}
	app.printSupportedExtensions()
	app.pickPhysicalDevice()
	return nil
}

func (app *Application) reportApiVersion() {
	version, err := app.graphics.InstanceVersion()
	if err != nil {
		app.logger.Warn("could not query instance version", zap.Error(err))
		return
	}
	app.logger.Debug("graphics loader", zap.Stringer("api_version", version))
}

func (app *Application) createInstance() error {
	if app.listLayers {
		app.printSupportedLayers()
	}

	if err := app.identity.Validate(); err != nil {
		return fail(ErrInstanceCreationFailed, err, "application identity")
	}

	var layers []string
	if app.enableValidation {
		supported, missing, err := app.checkValidationLayerSupport()
		if err != nil {
			return fail(ErrValidationLayersUnavailable, err, "check validation layer support")
		}
		if !supported {
			return errors.Mark(
				errors.Newf("validation layer %q not available", missing),
				ErrValidationLayersUnavailable)
		}
		layers = app.validationLayers
	}

	info := InstanceInfo{
		Identity:    app.identity,
		Extensions:  app.requiredExtensions(),
		Layers:      layers,
		Portability: app.portability,
	}
	app.logger.Debug("creating instance",
		zap.String("application", app.identity.ApplicationName),
		zap.Stringer("api_version", app.identity.APIVersion),
		zap.Strings("extensions", info.Extensions),
		zap.Strings("layers", info.Layers))

	instance, err := app.graphics.CreateInstance(info)
	if err != nil {
		return fail(ErrInstanceCreationFailed, err, "create instance")
	}
	app.instance = instance
	app.releases.push("instance", func() {
		instance.Destroy()
		app.instance = nil
	})

	app.setState(StateInstanceReady)
	return nil
}

func (app *Application) setupDebugMessenger() error {
	if !app.enableValidation {
		return nil
	}

	messenger, err := app.instance.CreateDebugMessenger(app.diagnostics.Report)
	if err != nil {
		return fail(ErrDebugMessengerSetupFailed, err, "register debug messenger")
	}
	app.debugMessenger = messenger
	app.releases.push("debug messenger", func() {
		messenger.Destroy()
		app.debugMessenger = nil
	})

	app.setState(StateDiagnosticsReady)
	return nil
}

// pickPhysicalDevice is where device enumeration and selection will go.
func (app *Application) pickPhysicalDevice() {
}

func (app *Application) printSupportedExtensions() {
	extensions, err := app.graphics.InstanceExtensions()
	if err != nil {
		app.logger.Warn("could not enumerate instance extensions", zap.Error(err))
		return
	}

	fmt.Fprintf(app.out, "%d extensions supported\n", len(extensions))
	for _, name := range extensions {
		fmt.Fprintf(app.out, "  %s\n", name)
	}
}

func (app *Application) printSupportedLayers() {
	layers, err := app.graphics.InstanceLayers()
	if err != nil {
		app.logger.Warn("could not enumerate instance layers", zap.Error(err))
		return
	}

	fmt.Fprintf(app.out, "%d layers available\n", len(layers))
	for _, name := range layers {
		fmt.Fprintf(app.out, "  %s\n", name)
	}
}

// checkValidationLayerSupport reports whether every required layer is
// available. Names must match exactly. When one is not, the first missing
// layer is printed and returned.
func (app *Application) checkValidationLayerSupport() (bool, string, error) {
	available, err := app.graphics.InstanceLayers()
	if err != nil {
		return false, "", errors.Wrap(err, "enumerate instance layers")
	}

	offered := make(map[string]struct{}, len(available))
	for _, name := range available {
		offered[name] = struct{}{}
	}
	for _, required := range app.validationLayers {
		if _, ok := offered[required]; !ok {
			fmt.Fprintf(app.out, "Missing validation layer: %s\n", required)
			return false, required, nil
		}
	}
	return true, "", nil
}

func (app *Application) requiredExtensions() []string {
	base := app.window.RequiredInstanceExtensions()
	extensions := make([]string, 0, len(base)+2)
	extensions = append(extensions, base...)

	if app.enableValidation {
		extensions = append(extensions, DebugUtilsExtensionName)
	}
	if app.portability {
		extensions = append(extensions, PortabilityEnumerationExtensionName)
	}
	return extensions
}

func (app *Application) mainLoop() {
	app.setState(StateRunning)
	for !app.window.ShouldClose() {
		app.windowing.PollEvents()
	}
	app.logger.Debug("window close requested")
}

// cleanup releases whatever was acquired, newest first. It is safe to call
// more than once and after a partial initialization.
func (app *Application) cleanup() {
	if app.releases.len() == 0 && app.state == StateTerminated {
		return
	}
	app.releases.releaseAll(app.logger)
	app.setState(StateTerminated)
}
