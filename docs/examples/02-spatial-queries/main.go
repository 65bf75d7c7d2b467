package main

import (
	"fmt"
	"log"

	"github.com/beetlebugorg/citygml/pkg/citygml"
)

func main() {
	// Index every document below the directory
	idx, errs, err := citygml.BuildIndexFromDir("udx/bldg", citygml.NewParser(), citygml.DefaultLoadOptions())
	if err != nil {
		log.Fatal(err)
	}
	for _, e := range errs {
		log.Printf("skipped: %v", e)
	}

	// Define search area (around Tokyo Station, lat/lon/height)
	area := citygml.NewEnvelope(
		citygml.Vec3{35.675, 139.760, -100},
		citygml.Vec3{35.685, 139.772, 1000},
	)

	// Query the R-tree for buildings intersecting the area
	entries := idx.Query(area, citygml.QueryOptions{
		Kinds:     []citygml.Kind{citygml.KindBuilding},
		RootsOnly: true,
	})

	fmt.Printf("Buildings in area: %d of %d objects\n", len(entries), idx.Count())

	for _, e := range entries {
		height, _ := e.Object.Attribute("measuredHeight")
		fmt.Printf("  %s: %s m (%s)\n", e.Object.ID, height, e.Path)
	}
}
