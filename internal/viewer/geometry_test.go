package viewer

import "testing"

func TestDefaultOffsetCentersAxis(t *testing.T) {
	tests := []struct {
		name           string
		display, image int
		want           int
	}{
		{"hd width", 1920, 640, 640},
		{"hd height", 1080, 480, 300},
		{"exact fit", 800, 800, 0},
		{"one pixel margin", 101, 100, 0},
		{"image wider than display", 640, 800, -80},
		{"tiny image", 1080, 1, 539},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultOffset(tt.display, tt.image); got != tt.want {
				t.Errorf("DefaultOffset(%d, %d) = %d, want %d",
					tt.display, tt.image, got, tt.want)
			}
		})
	}
}
