package metrics

import (
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/tabml/pkg/errors"
)

// confusionGrid adapts a ConfusionTable to the plotter heat map interface.
type confusionGrid struct {
	table *ConfusionTable
}

func (g confusionGrid) Dims() (int, int) {
	n := len(g.table.Classes)
	return n, n
}

func (g confusionGrid) X(c int) float64 { return float64(c) }
func (g confusionGrid) Y(r int) float64 { return float64(r) }

func (g confusionGrid) Z(c, r int) float64 {
	return float64(g.table.Counts[r][c])
}

// classTicks labels both axes with the class codes.
type classTicks struct {
	classes []int
}

func (t classTicks) Ticks(min, max float64) []plot.Tick {
	ticks := make([]plot.Tick, 0, len(t.classes))
	for i, c := range t.classes {
		v := float64(i)
		if v < min || v > max {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.Itoa(c)})
	}
	return ticks
}

// PlotConfusionMatrix renders the confusion table as a heat map PNG.
func PlotConfusionMatrix(table *ConfusionTable, path string) error {
	if table == nil || len(table.Classes) == 0 {
		return errors.NewValueError("PlotConfusionMatrix", "empty confusion table")
	}

	p := plot.New()
	p.Title.Text = "Confusion Matrix"
	p.X.Label.Text = "predicted class"
	p.Y.Label.Text = "true class"
	p.X.Tick.Marker = classTicks{classes: table.Classes}
	p.Y.Tick.Marker = classTicks{classes: table.Classes}

	heat := plotter.NewHeatMap(confusionGrid{table: table}, palette.Heat(12, 1))
	p.Add(heat)

	if err := p.Save(4*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "failed to save confusion matrix plot to %s", path)
	}
	return nil
}
