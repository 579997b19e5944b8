// Copyright 2024 the framediff authors.
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package plot

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// DecadeTicks marks whole decades on an axis whose values are already
// log10 of the plotted quantity, labeling each tick with the quantity
// itself (1e-04, 1e-03, ...). Used by the heatmap colorbar.
type DecadeTicks struct{}

func (DecadeTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for v := math.Ceil(min); v <= math.Floor(max); v++ {
		ticks = append(ticks, plot.Tick{
			Value: v,
			Label: formatFloatTick(math.Pow(10, v), 5),
		})
	}
	return ticks
}

func formatFloatTick(v float64, prec int) string {
	return strconv.FormatFloat(v, 'g', prec, 64)
}
