package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/beetlebugorg/citygml/pkg/citygml"
)

func main() {
	paths, err := citygml.FindDocuments("udx")
	if err != nil {
		log.Fatal(err)
	}

	opts := citygml.DefaultLoadOptions()
	opts.Parallel = true
	opts.Workers = 8
	opts.SkipErrors = true
	opts.ErrorLog = os.Stderr

	// Meshes only, reprojected to web mercator
	opts.ParseOptions.DestSRS = "EPSG:3857"
	opts.ParseOptions.Optimize = true

	start := time.Now()
	models, errs := citygml.LoadModelsParallel(paths, citygml.NewParser(), opts)
	elapsed := time.Since(start)

	objects := 0
	for _, m := range models {
		objects += len(m.AllObjects())
	}

	fmt.Printf("Loaded %d of %d documents in %v\n", len(models), len(paths), elapsed)
	fmt.Printf("Objects: %d\n", objects)
	fmt.Printf("Failed: %d\n", len(errs))
}
