package render

import (
	"io"
	"strconv"

	"github.com/KaramelBytes/premiumlens/internal/figure"
	"github.com/KaramelBytes/premiumlens/internal/utils"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// heatmapPanel draws the contingency table as shaded cells annotated with
// their counts. go-chart has no heatmap series, so the cells go straight to
// the SVG renderer.
func heatmapPanel(w io.Writer, p figure.Panel, size Size) error {
	ct := p.Table
	if ct == nil || len(ct.Rows) == 0 || len(ct.Cols) == 0 {
		return errEmptyPanel
	}
	r, err := chart.SVG(size.Width, size.Height)
	if err != nil {
		return err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return err
	}
	r.SetDPI(chart.DefaultDPI)
	r.SetFont(font)

	const left, top, right, bottom = 90, 28, 16, 48
	cw := (size.Width - left - right) / len(ct.Cols)
	ch := (size.Height - top - bottom) / len(ct.Rows)
	if cw <= 0 || ch <= 0 {
		return errEmptyPanel
	}
	peak := float64(max(ct.Max(), 1))

	for i, row := range ct.Rows {
		y0 := top + i*ch
		for j := range ct.Cols {
			x0 := left + j*cw
			v := ct.Counts[i][j]
			frac := float64(v) / peak
			r.SetFillColor(blues(frac))
			r.SetStrokeColor(drawing.ColorWhite)
			r.SetStrokeWidth(1)
			r.MoveTo(x0, y0)
			r.LineTo(x0+cw, y0)
			r.LineTo(x0+cw, y0+ch)
			r.LineTo(x0, y0+ch)
			r.Close()
			r.FillStroke()

			textColor := drawing.ColorBlack
			if frac > 0.55 {
				textColor = drawing.ColorWhite
			}
			label := strconv.Itoa(v)
			r.SetFontSize(11)
			r.SetFontColor(textColor)
			tb := r.MeasureText(label)
			r.Text(label, x0+(cw-tb.Width())/2, y0+(ch+tb.Height())/2)
		}
		r.SetFontSize(10)
		r.SetFontColor(drawing.ColorBlack)
		label := utils.TruncateLabel(row, labelLimit)
		tb := r.MeasureText(label)
		r.Text(label, left-tb.Width()-6, y0+(ch+tb.Height())/2)
	}
	r.SetFontSize(10)
	r.SetFontColor(drawing.ColorBlack)
	for j, col := range ct.Cols {
		label := utils.TruncateLabel(col, labelLimit)
		tb := r.MeasureText(label)
		r.Text(label, left+j*cw+(cw-tb.Width())/2, top+len(ct.Rows)*ch+tb.Height()+6)
	}
	if p.XLabel != "" {
		tb := r.MeasureText(p.XLabel)
		r.Text(p.XLabel, left+(len(ct.Cols)*cw-tb.Width())/2, size.Height-8)
	}
	if p.YLabel != "" {
		r.Text(p.YLabel, 6, top-10)
	}
	return r.Save(w)
}
