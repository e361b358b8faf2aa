// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package neurofisher

import (
	"strconv"

	"github.com/emer/etable/v2/etable"
	"github.com/emer/etable/v2/etensor"
)

// LogPrec is the precision for saving float values in the run table.
const LogPrec = 6

// Table renders the run as an etable.Table with one row per timepoint: time
// index, the per-neuron rate and spike-count tensor cells, and the
// population spike total.  This is the hand-off format for downstream
// logging and analysis.
func (rs *Result) Table() *etable.Table {
	nt := rs.Rates.Dim(0)
	n := rs.Rates.Dim(1)
	dt := &etable.Table{}
	dt.SetMetaData("name", "NeuroFisherRun")
	dt.SetMetaData("desc", "Poisson observations with Fisher-Information SNR")
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))
	sch := etable.Schema{
		{Name: "Time", Type: etensor.INT64, CellShape: nil, DimNames: nil},
		{Name: "Rate", Type: etensor.FLOAT64, CellShape: []int{n}, DimNames: []string{"Neuron"}},
		{Name: "Spikes", Type: etensor.INT64, CellShape: []int{n}, DimNames: []string{"Neuron"}},
		{Name: "TotalSpikes", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
	}
	dt.SetFromSchema(sch, nt)
	rrow := etensor.NewFloat64([]int{n}, nil, []string{"Neuron"})
	srow := etensor.NewInt64([]int{n}, nil, []string{"Neuron"})
	for t := 0; t < nt; t++ {
		tot := 0.0
		for i := 0; i < n; i++ {
			rrow.Values[i] = rs.Rates.Values[t*n+i]
			srow.Values[i] = rs.Spikes.Values[t*n+i]
			tot += float64(rs.Spikes.Values[t*n+i])
		}
		dt.SetCellFloat("Time", t, float64(t))
		dt.SetCellTensor("Rate", t, rrow)
		dt.SetCellTensor("Spikes", t, srow)
		dt.SetCellFloat("TotalSpikes", t, tot)
	}
	return dt
}
