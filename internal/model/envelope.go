package model

import "math"

// Envelope is an axis-aligned 3-D bounding box in the named reference
// system.
type Envelope struct {
	SRSName string
	Lower   Vec3
	Upper   Vec3

	set bool
}

// NewEnvelope creates an envelope from explicit corners.
func NewEnvelope(srsName string, lower, upper Vec3) *Envelope {
	return &Envelope{SRSName: srsName, Lower: lower, Upper: upper, set: true}
}

// Valid reports whether the envelope holds at least one point.
func (e *Envelope) Valid() bool {
	return e != nil && e.set
}

// Expand grows the envelope to contain v.
func (e *Envelope) Expand(v Vec3) {
	if !e.set {
		e.Lower, e.Upper, e.set = v, v, true
		return
	}
	for i := 0; i < 3; i++ {
		e.Lower[i] = math.Min(e.Lower[i], v[i])
		e.Upper[i] = math.Max(e.Upper[i], v[i])
	}
}

// SetLower assigns the lower corner, marking the envelope valid.
func (e *Envelope) SetLower(v Vec3) {
	e.Lower = v
	e.set = true
}

// SetUpper assigns the upper corner, marking the envelope valid.
func (e *Envelope) SetUpper(v Vec3) {
	e.Upper = v
	e.set = true
}

// Intersects reports whether the two boxes overlap (touching counts).
func (e *Envelope) Intersects(o *Envelope) bool {
	if !e.Valid() || !o.Valid() {
		return false
	}
	for i := 0; i < 3; i++ {
		if e.Upper[i] < o.Lower[i] || o.Upper[i] < e.Lower[i] {
			return false
		}
	}
	return true
}

// Contains reports whether v lies inside the box.
func (e *Envelope) Contains(v Vec3) bool {
	if !e.Valid() {
		return false
	}
	for i := 0; i < 3; i++ {
		if v[i] < e.Lower[i] || v[i] > e.Upper[i] {
			return false
		}
	}
	return true
}

// Size returns the extent along each axis.
func (e *Envelope) Size() Vec3 {
	if !e.Valid() {
		return Vec3{}
	}
	return e.Upper.Sub(e.Lower)
}
