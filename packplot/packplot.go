/*
 * packplot.go, part of hardpack.
 *
 * Copyright 2024 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package packplot draws the evolution of compression runs from their
// runlog samples. The output format is taken from the extension of
// the file name (png, svg, pdf, eps...).
package packplot

import (
	"fmt"
	"image/color"
	"math"

	"github.com/rmera/hardpack/runlog"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Size of the saved plots.
var Width, Height = 6 * vg.Inch, 4 * vg.Inch

func basicPlot(title, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Step"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

// series returns the points (step, f(sample)), skipping the NaN values of f.
func series(samples []runlog.Sample, f func(runlog.Sample) float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(samples))
	for _, s := range samples {
		y := f(s)
		if math.IsNaN(y) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(s.Step), Y: y})
	}
	return pts
}

func addLines(p *plot.Plot, names []string, data []plotter.XYs) error {
	for i, d := range data {
		if len(d) == 0 {
			continue
		}
		l, err := plotter.NewLine(d)
		if err != nil {
			return err
		}
		l.Color = plotutil.Color(i)
		l.Width = vg.Points(1.5)
		p.Add(l)
		p.Legend.Add(names[i], l)
	}
	return nil
}

// CompressionCurve plots the packing fraction against the step.
func CompressionCurve(samples []runlog.Sample, title, filename string) error {
	if len(samples) == 0 {
		return fmt.Errorf("packplot: no samples to plot in %s", filename)
	}
	p := basicPlot(title, "Packing fraction")
	phi := series(samples, func(s runlog.Sample) float64 { return s.PackingFraction })
	if err := addLines(p, []string{"phi"}, []plotter.XYs{phi}); err != nil {
		return err
	}
	p.Legend.Top = false
	p.Legend.Left = true
	p.Y.Min = 0
	return p.Save(Width, Height, filename)
}

// MoveSizes plots the translation and rotation amplitudes against the step.
func MoveSizes(samples []runlog.Sample, title, filename string) error {
	if len(samples) == 0 {
		return fmt.Errorf("packplot: no samples to plot in %s", filename)
	}
	p := basicPlot(title, "Amplitude")
	d := series(samples, func(s runlog.Sample) float64 { return s.TranslateSize })
	a := series(samples, func(s runlog.Sample) float64 { return s.RotateSize })
	if err := addLines(p, []string{"translate", "rotate"}, []plotter.XYs{d, a}); err != nil {
		return err
	}
	p.Legend.Top = true
	return p.Save(Width, Height, filename)
}

// Acceptance plots the acceptance ratios against the step, with a horizontal
// dashed line at target, if target is in (0,1).
func Acceptance(samples []runlog.Sample, target float64, title, filename string) error {
	if len(samples) == 0 {
		return fmt.Errorf("packplot: no samples to plot in %s", filename)
	}
	p := basicPlot(title, "Acceptance ratio")
	p.Y.Min = 0
	p.Y.Max = 1
	tr := series(samples, func(s runlog.Sample) float64 { return s.TranslateRatio })
	rr := series(samples, func(s runlog.Sample) float64 { return s.RotateRatio })
	if err := addLines(p, []string{"translate", "rotate"}, []plotter.XYs{tr, rr}); err != nil {
		return err
	}
	if target > 0 && target < 1 {
		first, last := float64(samples[0].Step), float64(samples[len(samples)-1].Step)
		l, err := plotter.NewLine(plotter.XYs{{X: first, Y: target}, {X: last, Y: target}})
		if err != nil {
			return err
		}
		l.Color = color.Gray{Y: 100}
		l.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(l)
		p.Legend.Add("target", l)
	}
	return p.Save(Width, Height, filename)
}
