// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/model3d/core"
	"github.com/devblok/model3d/model"
)

var bundled = flag.Bool("assets", false, "Look the models up in the configured asset source instead of the file system")

type modelInfo struct {
	Name     string                 `json:"name"`
	Vertices []model.VerticesLayout `json:"vertices"`
}

func readModel(name string) ([]byte, error) {
	if !*bundled {
		return model.ReadMappedFile(name)
	}
	cfg, err := core.LoadConfiguration(".env")
	if err != nil {
		return nil, err
	}
	loader, closeLoader, err := core.NewLoader(cfg.Assets)
	if err != nil {
		return nil, err
	}
	defer closeLoader()
	return loader.Load(name)
}

func describe(name string) (modelInfo, error) {
	data, err := readModel(name)
	if err != nil {
		return modelInfo{}, err
	}
	arena := model.NewArena()
	handles, err := model.ImportCollada(arena, data)
	if err != nil {
		return modelInfo{}, err
	}
	info := modelInfo{Name: name}
	for _, h := range handles {
		info.Vertices = append(info.Vertices, arena.Vertices(h).Layout())
	}
	return info, nil
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: m3dinfo [-assets] model.dae...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	var infos []modelInfo
	for _, name := range flag.Args() {
		info, err := describe(name)
		if err != nil {
			log.WithField("model", name).Fatal(err)
		}
		infos = append(infos, info)
	}

	if bytes, err := json.MarshalIndent(infos, "", "  "); err == nil {
		fmt.Printf("%s\n", bytes)
	} else {
		log.Fatal(err)
	}
}
