// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package assets holds the models shipped with the binaries. In
// development the files are read from disk, packr embeds them in
// release builds.
package assets

import (
	"fmt"
	"strings"

	"github.com/gobuffalo/packr"
)

// Models is the box of bundled model files.
var Models = packr.NewBox("./models")

// Loader serves bundled assets by name. It implements gfx.Loader.
type Loader struct {
	box packr.Box
}

// NewLoader returns a Loader over the bundled models.
func NewLoader() *Loader {
	return &Loader{box: Models}
}

// Load implements gfx.Loader.
func (l *Loader) Load(id string) ([]byte, error) {
	id = strings.TrimPrefix(id, "/")
	if !l.box.Has(id) {
		return nil, fmt.Errorf("asset %q not found", id)
	}
	return l.box.Find(id)
}

// Names lists all bundled assets.
func (l *Loader) Names() []string {
	return l.box.List()
}
