package main

import (
	"fmt"
	"log"

	"github.com/beetlebugorg/citygml/pkg/citygml"
)

// Get all buildings matching an expression over their attributes
func filterBuildings(m *citygml.CityModel, expression string) ([]*citygml.CityObject, error) {
	filter, err := citygml.NewFilter(expression)
	if err != nil {
		return nil, err
	}

	var matched []*citygml.CityObject
	for _, obj := range m.ObjectsByKind(citygml.KindBuilding) {
		ok, err := filter.Match(obj)
		if err != nil {
			// Attribute values of the wrong type do not match
			continue
		}
		if ok {
			matched = append(matched, obj)
		}
	}
	return matched, nil
}

func main() {
	parser := citygml.NewParser()
	m, err := parser.Parse("53394525_bldg_6697_op.gml")
	if err != nil {
		log.Fatal(err)
	}

	tall, err := filterBuildings(m, "measuredHeight >= 60")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Buildings of 60 m or more: %d\n", len(tall))

	// Code list values are resolved before filtering
	offices, err := filterBuildings(m, `usage == "commercial" && storeysAboveGround > 10`)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Commercial high-rises: %d\n", len(offices))

	for _, b := range offices {
		name, _ := b.Attribute("name")
		fmt.Printf("  %s %s\n", b.ID, name)
	}
}
