// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"flag"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/model3d/core"
	"github.com/devblok/model3d/model"
	"github.com/devblok/model3d/shapes"
)

var (
	envFile = flag.String("env", ".env", "Dotenv file to load the configuration from")
	shape   = flag.String("shape", "", "Built-in shape to load: triangle, quad or cube")
	size    = flag.Float64("size", 1, "Size of the built-in shape")
)

func builtinShape(name string, size float32) (shapes.Mesh, error) {
	switch name {
	case "triangle":
		return shapes.Triangle(size), nil
	case "quad":
		return shapes.Quad(size, size), nil
	case "cube":
		return shapes.Cube(size), nil
	}
	return shapes.Mesh{}, fmt.Errorf("unknown shape %q", name)
}

func main() {
	flag.Parse()

	cfg, err := core.LoadConfiguration(*envFile)
	if err != nil {
		log.Fatal(err)
	}
	logger, err := core.NewLogger(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	model.SetLogger(logger)

	arena := model.NewArena()
	if *shape != "" {
		mesh, err := builtinShape(*shape, float32(*size))
		if err != nil {
			logger.Fatal(err)
		}
		if _, err := mesh.Push(arena); err != nil {
			logger.Fatal(err)
		}
	}

	loader, closeLoader, err := core.NewLoader(cfg.Assets)
	if err != nil {
		logger.Fatal(err)
	}
	defer closeLoader()

	for _, name := range flag.Args() {
		data, err := loader.Load(name)
		if err != nil {
			logger.WithField("model", name).Fatal(err)
		}
		handles, err := model.ImportCollada(arena, data)
		if err != nil {
			logger.WithField("model", name).Fatal(err)
		}
		logger.WithFields(log.Fields{"model": name, "meshes": len(handles)}).Info("model imported")
	}

	if arena.NumVertices() == 0 {
		logger.Warn("nothing to realize, pass model names or -shape")
		return
	}

	backend, cleanup, err := core.NewRenderable(cfg.Renderer, logger)
	if err != nil {
		logger.Fatal(err)
	}
	realizer := model.NewRealizer(backend)
	arena.Realize(realizer)

	counts := realizer.Counts()
	logger.WithFields(log.Fields{
		"backend":     cfg.Renderer.Backend,
		"regions":     counts.Regions,
		"descriptors": counts.Descriptors,
		"accessors":   counts.Accessors,
		"indices":     counts.Indices,
		"vertices":    counts.Vertices,
	}).Info("arena realized")

	backendErr := core.BackendErr(backend)
	realizer.Release()
	cleanup()
	if backendErr != nil {
		logger.Fatal(backendErr)
	}
}
