// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/sirupsen/logrus"

	"github.com/devblok/model3d/assets"
	"github.com/devblok/model3d/gfx"
	"github.com/devblok/model3d/gfx/trace"
	"github.com/devblok/model3d/gfx/wgr"
	"github.com/devblok/model3d/model"
	"github.com/devblok/model3d/utility/kar"
)

// NewLogger creates a logger as configured.
func NewLogger(cfg LogConfiguration) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.Out = os.Stderr
	logger.SetLevel(level)
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}

// NewRenderable creates the configured backend. The returned function
// tears the backend down and must be called once the Realizer using it
// has been released.
func NewRenderable(cfg RendererConfiguration, log logrus.FieldLogger) (model.Renderable, func(), error) {
	switch cfg.Backend {
	case BackendTrace:
		return trace.New(log), func() {}, nil
	case BackendWGPU:
		api := noop.API{}
		instance, err := api.CreateInstance(nil)
		if err != nil {
			return nil, nil, fmt.Errorf("creating instance: %w", err)
		}
		adapters := instance.EnumerateAdapters(nil)
		if len(adapters) == 0 {
			instance.Destroy()
			return nil, nil, fmt.Errorf("no adapters available")
		}
		open, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
		if err != nil {
			instance.Destroy()
			return nil, nil, fmt.Errorf("opening device: %w", err)
		}
		cleanup := func() {
			open.Device.Destroy()
			instance.Destroy()
		}
		return wgr.New(open.Device, open.Queue, log), cleanup, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// NewLoader opens the configured asset source. The returned function
// closes it.
func NewLoader(cfg AssetConfiguration) (gfx.Loader, func() error, error) {
	switch {
	case cfg.Archive != "":
		ar, err := kar.OpenFile(cfg.Archive)
		if err != nil {
			return nil, nil, err
		}
		return ar, ar.Close, nil
	case cfg.Dir != "":
		dir := cfg.Dir
		return gfx.LoaderFunc(func(id string) ([]byte, error) {
			return ioutil.ReadFile(filepath.Join(dir, filepath.FromSlash(id)))
		}), func() error { return nil }, nil
	}
	return assets.NewLoader(), func() error { return nil }, nil
}

// BackendErr returns the first error recorded by backends that keep one.
func BackendErr(r model.Renderable) error {
	if e, ok := r.(interface{ Err() error }); ok {
		return e.Err()
	}
	return nil
}
