// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package assets_test

import (
	"bytes"
	"testing"

	"github.com/devblok/model3d/assets"
	"github.com/devblok/model3d/gfx"
)

var _ gfx.Loader = (*assets.Loader)(nil)

func TestLoadCube(t *testing.T) {
	loader := assets.NewLoader()
	data, err := loader.Load("cube.dae")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<COLLADA")) {
		t.Fatal("cube.dae is not a Collada document")
	}

	var found bool
	for _, name := range loader.Names() {
		if name == "cube.dae" {
			found = true
		}
	}
	if !found {
		t.Errorf("cube.dae not listed in %v", loader.Names())
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := assets.NewLoader().Load("missing.dae"); err == nil {
		t.Fatal("expected an error for a missing asset")
	}
}
