package model

import "strings"

// Address is a postal address read from an xAL block.
type Address struct {
	ID               string
	Country          string
	Locality         string
	ThoroughfareName string
	ThoroughfareNo   string
	PostalCode       string
	// Position is the optional point the address is attached to.
	Position *Vec3
}

// Empty reports whether no field was filled.
func (a *Address) Empty() bool {
	return a == nil || (a.Country == "" && a.Locality == "" && a.ThoroughfareName == "" &&
		a.ThoroughfareNo == "" && a.PostalCode == "")
}

// String renders the address on one line.
func (a *Address) String() string {
	if a == nil {
		return ""
	}
	var parts []string
	street := strings.TrimSpace(a.ThoroughfareName + " " + a.ThoroughfareNo)
	for _, p := range []string{street, strings.TrimSpace(a.PostalCode + " " + a.Locality), a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// ExternalReference links a city object to a record in another information
// system.
type ExternalReference struct {
	InformationSystem string
	// Name and URI are alternatives; usually only one is set.
	Name string
	URI  string
}
