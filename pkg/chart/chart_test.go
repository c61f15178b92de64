package chart

import (
	"testing"

	"fyne.io/fyne/v2"
	"github.com/itohio/goforce/pkg/series"
	"github.com/stretchr/testify/assert"
)

func TestVisible(t *testing.T) {
	pts := []series.Point{{T: 0}, {T: 0.5}, {T: 1}, {T: 1.5}, {T: 2}, {T: 2.5}}

	tests := []struct {
		name   string
		bounds series.Bounds
		want   []series.Point
	}{
		{
			name:   "initial bounds show everything",
			bounds: series.Bounds{XLower: 0, XUpper: 100},
			want:   pts,
		},
		{
			name:   "sliding window",
			bounds: series.Bounds{XLower: 0.5, XUpper: 2},
			want:   pts[1:5],
		},
		{
			name:   "nothing visible",
			bounds: series.Bounds{XLower: 10, XUpper: 12},
			want:   []series.Point{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Visible(pts, tt.bounds))
		})
	}
}

func TestProject(t *testing.T) {
	b := series.Bounds{XLower: 1, XUpper: 3, YUpper: 10}

	assert.Equal(t, fyne.NewPos(10, 120), Project(series.Point{T: 1, V: 0}, b, 10, 20, 200, 100))
	assert.Equal(t, fyne.NewPos(110, 70), Project(series.Point{T: 2, V: 5}, b, 10, 20, 200, 100))
	assert.Equal(t, fyne.NewPos(210, 20), Project(series.Point{T: 3, V: 10}, b, 10, 20, 200, 100))
}

func TestProject_DegenerateBounds(t *testing.T) {
	p := Project(series.Point{T: 0, V: 0}, series.Bounds{}, 0, 0, 100, 100)
	assert.Equal(t, fyne.NewPos(0, 100), p)
}
