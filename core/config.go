// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core wires configuration, logging, asset sources and
// rendering backends together for the binaries.
package core

import (
	"fmt"
	"os"
	"strings"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
)

// Environment variables read by LoadConfiguration.
const (
	EnvLogLevel  = "MODEL3D_LOG_LEVEL"
	EnvLogFormat = "MODEL3D_LOG_FORMAT"
	EnvBackend   = "MODEL3D_BACKEND"
	EnvArchive   = "MODEL3D_ARCHIVE"
	EnvAssetDir  = "MODEL3D_ASSET_DIR"
)

// Backend names understood by NewRenderable.
const (
	BackendTrace = "trace"
	BackendWGPU  = "wgpu"
)

// Configuration defines a global configuration setting
type Configuration struct {
	Log      LogConfiguration
	Renderer RendererConfiguration
	Assets   AssetConfiguration
}

// LogConfiguration is used to configure logging
type LogConfiguration struct {
	// Level is any level logrus can parse.
	Level string

	// Format is either "text" or "json".
	Format string
}

// RendererConfiguration is used to configure the renderer
type RendererConfiguration struct {
	Backend string
}

// AssetConfiguration selects where models are loaded from. Archive
// takes precedence over Dir, with neither set the bundled assets are
// used.
type AssetConfiguration struct {
	Archive string
	Dir     string
}

// DefaultConfiguration returns the configuration used when nothing is set.
func DefaultConfiguration() Configuration {
	return Configuration{
		Log:      LogConfiguration{Level: "info", Format: "text"},
		Renderer: RendererConfiguration{Backend: BackendTrace},
	}
}

// LoadConfiguration loads the given dotenv files into the environment,
// missing files are skipped, then reads the configuration from it.
// Variables already present in the environment win over the files.
func LoadConfiguration(files ...string) (Configuration, error) {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return Configuration{}, fmt.Errorf("loading %s: %w", file, err)
		}
	}
	envy.Reload()

	def := DefaultConfiguration()
	cfg := Configuration{
		Log: LogConfiguration{
			Level:  envy.Get(EnvLogLevel, def.Log.Level),
			Format: strings.ToLower(envy.Get(EnvLogFormat, def.Log.Format)),
		},
		Renderer: RendererConfiguration{
			Backend: strings.ToLower(envy.Get(EnvBackend, def.Renderer.Backend)),
		},
		Assets: AssetConfiguration{
			Archive: envy.Get(EnvArchive, ""),
			Dir:     envy.Get(EnvAssetDir, ""),
		},
	}
	return cfg, cfg.Validate()
}

// Validate checks the enumerated settings.
func (c Configuration) Validate() error {
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	switch c.Renderer.Backend {
	case BackendTrace, BackendWGPU:
	default:
		return fmt.Errorf("unknown backend %q", c.Renderer.Backend)
	}
	return nil
}
