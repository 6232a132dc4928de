package main

import (
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/ibd1279/vks"
	"go.uber.org/zap"

	"github.com/ibd1279/vks-examples/tutorial-bootstrap/internal/bootstrap"
	"github.com/ibd1279/vks-examples/tutorial-bootstrap/internal/cli"
	"github.com/ibd1279/vks-examples/tutorial-bootstrap/internal/vulkan"
	"github.com/ibd1279/vks-examples/tutorial-bootstrap/internal/window"
)

func init() {
	// GLFW calls must come from the main thread.
	runtime.LockOSThread()
}

// Main function.
func main() {
	cmd := cli.NewRootCmd(cli.Streams{Out: os.Stdout, Err: os.Stderr}, run)
	os.Exit(cli.Execute(cmd, os.Stdout))
}

func run(opts bootstrap.Options) error {
	if r := vks.Init(); r.IsError() {
		return errors.Mark(errors.Wrap(r.AsErr(), "load vulkan"), bootstrap.ErrGraphicsLoaderUnavailable)
	}
	defer vks.Destroy()

	opts.Logger.Debug("vk.xml version", zap.Any("header", vks.VK_HEADER_VERSION_COMPLETE))

	app := bootstrap.New(window.GLFW{}, vulkan.NewLoader(window.InstanceProcAddr), opts)
	return app.Run()
}
