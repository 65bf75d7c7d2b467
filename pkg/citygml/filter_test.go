package citygml

import (
	"testing"

	"github.com/beetlebugorg/citygml/internal/model"
)

func filterTestObject() *CityObject {
	arena := model.NewArena()
	parent := arena.New("BLD_1", model.KindBuilding)
	obj := arena.New("PART_1", model.KindBuildingPart)
	parent.AddChild(obj)
	obj.SetAttribute("name", model.NewAttributeValue("Central Station", model.AttributeString))
	obj.SetAttribute("measuredHeight", model.NewAttributeValue("42.5", model.AttributeDouble))
	obj.SetAttribute("storeysAboveGround", model.NewAttributeValue("9", model.AttributeInteger))
	obj.SetAttribute("listed", model.NewAttributeValue("true", model.AttributeBoolean))
	obj.SetAttribute("survey", model.NewAttributeSetValue(model.AttributeSet{
		"floor": model.NewAttributeValue("3", model.AttributeInteger),
	}))
	return obj
}

func TestFilterMatch(t *testing.T) {
	obj := filterTestObject()

	tests := []struct {
		expr string
		want bool
	}{
		{"measuredHeight > 40", true},
		{"measuredHeight > 40 && storeysAboveGround < 5", false},
		{"kind == 'BuildingPart'", true},
		{"id == 'PART_1' && parent == 'BLD_1'", true},
		{"listed", true},
		{"contains(name, 'Station')", true},
		{"lower(name) == 'central station'", true},
		{"[survey.floor] == 3", true},
		{"exists(roofType)", false},
		{"exists(name)", true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f, err := NewFilter(tt.expr)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			got, err := f.Match(obj)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
			if f.String() != tt.expr {
				t.Errorf("Expected %q, got %q", tt.expr, f.String())
			}
		})
	}
}

func TestFilterErrors(t *testing.T) {
	if _, err := NewFilter("measuredHeight >"); err == nil {
		t.Error("Expected a compile error")
	}

	obj := filterTestObject()
	for _, expr := range []string{"measuredHeight + 1", "roofType > 3"} {
		f, err := NewFilter(expr)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if _, err := f.Match(obj); err == nil {
			t.Errorf("%s: Expected an evaluation error", expr)
		}
	}
}
