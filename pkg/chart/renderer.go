package chart

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"github.com/itohio/goforce/pkg/series"
)

var (
	gridColor  = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	labelColor = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	traceColor = color.RGBA{R: 255, G: 165, B: 0, A: 255}
)

// chartRenderer renders the chart widget.
type chartRenderer struct {
	chart   *ChartWidget
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *chartRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 250)
}

func (r *chartRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
}

func (r *chartRenderer) Refresh() {
	r.chart.mu.RLock()
	points := r.chart.display
	bounds := r.chart.bounds
	r.chart.mu.RUnlock()

	size := r.chart.Size()
	r.bg.Resize(size)
	r.objects = []fyne.CanvasObject{r.bg}
	if size.Width == 0 || size.Height == 0 {
		return
	}

	marginLeft := float32(60)
	marginRight := float32(20)
	marginTop := float32(20)
	marginBottom := float32(30)

	plotX := marginLeft
	plotY := marginTop
	plotW := size.Width - marginLeft - marginRight
	plotH := size.Height - marginTop - marginBottom

	r.drawGrid(plotX, plotY, plotW, plotH, bounds)
	r.drawTrace(plotX, plotY, plotW, plotH, points, bounds)
}

// drawGrid draws force rows and time columns with labels.
func (r *chartRenderer) drawGrid(x, y, w, h float32, b series.Bounds) {
	const rows, cols = 5, 4

	for i := range rows + 1 {
		ly := y + float32(i)*h/rows
		r.addLine(fyne.NewPos(x, ly), fyne.NewPos(x+w, ly), gridColor, 1)

		value := b.YUpper - float32(i)*b.YUpper/rows
		text := canvas.NewText(fmt.Sprintf("%.1f", value), labelColor)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignTrailing
		text.Move(fyne.NewPos(x-5, ly-6))
		r.objects = append(r.objects, text)
	}

	for i := range cols + 1 {
		lx := x + float32(i)*w/cols
		r.addLine(fyne.NewPos(lx, y), fyne.NewPos(lx, y+h), gridColor, 1)

		t := b.XLower + float32(i)*(b.XUpper-b.XLower)/cols
		text := canvas.NewText(fmt.Sprintf("%.1fs", t), labelColor)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(lx-20, y+h+5))
		r.objects = append(r.objects, text)
	}
}

// drawTrace draws the combined force as connected segments.
func (r *chartRenderer) drawTrace(x, y, w, h float32, points []series.Point, b series.Bounds) {
	for i := 1; i < len(points); i++ {
		p1 := Project(points[i-1], b, x, y, w, h)
		p2 := Project(points[i], b, x, y, w, h)
		r.addLine(p1, p2, traceColor, 1.5)
	}
}

func (r *chartRenderer) addLine(p1, p2 fyne.Position, c color.Color, width float32) {
	line := canvas.NewLine(c)
	line.Position1 = p1
	line.Position2 = p2
	line.StrokeWidth = width
	r.objects = append(r.objects, line)
}

func (r *chartRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *chartRenderer) Destroy() {}
