package core

// ElementInfo represents a snapshot of a UI element's attributes
type ElementInfo struct {
	Role     string            `json:"role,omitempty" yaml:"role,omitempty"`
	Name     string            `json:"name,omitempty" yaml:"name,omitempty"`
	NativeID string            `json:"nativeId,omitempty" yaml:"nativeId,omitempty"`
	Bounds   Bounds            `json:"bounds" yaml:"bounds"`
	Visible  bool              `json:"visible" yaml:"visible"`
	Enabled  bool              `json:"enabled" yaml:"enabled"`
	Focused  bool              `json:"focused,omitempty" yaml:"focused,omitempty"`
	Attrs    map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Attr returns a generic attribute value, checking the well-known
// fields before the attribute map.
func (e *ElementInfo) Attr(key string) (string, bool) {
	switch key {
	case "role":
		return e.Role, e.Role != ""
	case "name":
		return e.Name, e.Name != ""
	case "nativeid":
		return e.NativeID, e.NativeID != ""
	}
	v, ok := e.Attrs[key]
	return v, ok
}

// Bounds represents element position and size
type Bounds struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Center returns the center point of the bounds
func (b Bounds) Center() (int, int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Contains checks if a point is within the bounds
func (b Bounds) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

// IsEmpty returns true if the bounds have no area
func (b Bounds) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}
