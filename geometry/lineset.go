package geometry

// LineSet holds endpoints and line connectivity with optional per-line
// colors.
type LineSet struct {
	Points []Vector3
	Lines  []Line
	Colors []Vector3
}

// IsEmpty reports whether the set has no points.
func (ls *LineSet) IsEmpty() bool { return len(ls.Points) == 0 }

// HasLines reports whether the set has connectivity.
func (ls *LineSet) HasLines() bool {
	return len(ls.Points) > 0 && len(ls.Lines) > 0
}

// HasColors reports whether every line carries a color.
func (ls *LineSet) HasColors() bool {
	return len(ls.Lines) > 0 && len(ls.Colors) == len(ls.Lines)
}
