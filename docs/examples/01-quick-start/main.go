package main

import (
	"fmt"
	"log"

	"github.com/beetlebugorg/citygml/pkg/citygml"
)

func main() {
	// Create parser
	parser := citygml.NewParser()

	// Parse a CityGML document
	m, err := parser.Parse("53394525_bldg_6697_op.gml")
	if err != nil {
		log.Fatal(err)
	}

	// Print model info
	fmt.Printf("Model: %s\n", m.ID)
	fmt.Printf("Reference system: %s\n", m.SRSName)
	fmt.Printf("Objects: %d\n", len(m.AllObjects()))
	fmt.Printf("Buildings: %d\n", len(m.ObjectsByKind(citygml.KindBuilding)))
	fmt.Printf("Issues: %d\n", m.Diagnostics.Len())

	// Get model bounds
	if env := m.Envelope; env != nil {
		fmt.Printf("Bounds: [%.6f,%.6f] to [%.6f,%.6f]\n",
			env.Lower[0], env.Lower[1],
			env.Upper[0], env.Upper[1])
	}
}
