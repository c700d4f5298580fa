// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gfx defines what rendering backends and asset sources share.
// Backends themselves live in the subpackages.
package gfx

// Releasable defines any memory-occupying item that can be freed.
type Releasable interface {

	// Release releases memory occupied by the implementing structure.
	Release()
}

// Loader describes a source of raw asset bytes.
type Loader interface {

	// Load tries to find the asset asociated with the provided id
	// and returns its contents.
	Load(id string) ([]byte, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(id string) ([]byte, error)

// Load implements Loader.
func (f LoaderFunc) Load(id string) ([]byte, error) {
	return f(id)
}
