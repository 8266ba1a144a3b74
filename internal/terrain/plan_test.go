package terrain

import "testing"

func TestPlanDimensions(t *testing.T) {
	tests := []struct {
		name       string
		profile    Profile
		ppm        float64
		height     int
		wantWidth  int
		wantHeight int
	}{
		{
			name:       "two pixels per meter",
			profile:    Profile{{X: 0, Y: 0}, {X: 50, Y: 2}, {X: 100, Y: 1}},
			ppm:        2,
			height:     512,
			wantWidth:  200,
			wantHeight: 512,
		},
		{
			name:       "one pixel per meter",
			profile:    Profile{{X: 0, Y: 0}, {X: 10, Y: 5}, {X: 20, Y: 0}},
			ppm:        1,
			height:     4,
			wantWidth:  20,
			wantHeight: 4,
		},
		{
			name:       "fractional width truncates",
			profile:    Profile{{X: 0, Y: 0}, {X: 10.6, Y: 1}},
			ppm:        1,
			height:     8,
			wantWidth:  10,
			wantHeight: 8,
		},
		{
			name:       "offset origin",
			profile:    Profile{{X: -25, Y: 0}, {X: 75, Y: 3}},
			ppm:        0.5,
			height:     16,
			wantWidth:  50,
			wantHeight: 16,
		},
		{
			name:       "zero extent plans zero width",
			profile:    Profile{{X: 5, Y: 0}, {X: 5, Y: 9}},
			ppm:        4,
			height:     32,
			wantWidth:  0,
			wantHeight: 32,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := PlanDimensions(tt.profile, tt.ppm, tt.height)
			if w != tt.wantWidth || h != tt.wantHeight {
				t.Errorf("PlanDimensions() = (%d, %d), want (%d, %d)",
					w, h, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestPlanMetadata(t *testing.T) {
	p := Profile{{X: 0, Y: 0}, {X: 10, Y: 5}, {X: 20, Y: 0}}

	meta := PlanMetadata(p, 2.5)
	if meta.TerrainWidth != 20 {
		t.Errorf("TerrainWidth = %v, want 20", meta.TerrainWidth)
	}
	if meta.TerrainHeight != 5 {
		t.Errorf("TerrainHeight = %v, want 5", meta.TerrainHeight)
	}
	if meta.PixelsPerMeter != 2.5 {
		t.Errorf("PixelsPerMeter = %v, want 2.5", meta.PixelsPerMeter)
	}
}
