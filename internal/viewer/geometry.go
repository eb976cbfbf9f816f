package viewer

// DefaultOffset returns the centered offset for one axis: the position
// that leaves equal margins around an image extent within a display
// extent. Computed once at startup from the initial image size; a reload
// with different dimensions keeps the old position.
func DefaultOffset(displayExtent, imageExtent int) int {
	return (displayExtent - imageExtent) / 2
}
