// Package export writes run readouts to a stream. Runs are reproducible
// from seed and config, so nothing is ever persisted to disk; the CLI pipes
// these encoders to stdout.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"
	"strconv"

	"github.com/hariganeshs/money-explained/internal/sim"
)

// WriteCSV emits a time column followed by every readout series, keys in
// sorted order.
func WriteCSV(w io.Writer, result *sim.Result) error {
	keys := result.Keys()
	sort.Strings(keys)

	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := append([]string{"time"}, keys...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := range result.Times {
		row := make([]string, 0, len(keys)+1)
		row = append(row, strconv.FormatFloat(result.Times[i], 'f', 6, 64))
		for _, k := range keys {
			series := result.Series[k]
			v := 0.0
			if i < len(series) {
				v = series[i]
			}
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	return nil
}

type runDocument struct {
	Sim     string               `json:"sim"`
	Dt      float64              `json:"dt"`
	Ticks   int                  `json:"ticks"`
	Seed    int64                `json:"seed"`
	Metrics map[string]float64   `json:"metrics"`
	Times   []float64            `json:"times"`
	Series  map[string][]float64 `json:"series"`
}

// WriteJSON emits the whole run as one indented document.
func WriteJSON(w io.Writer, simName string, cfg sim.Config, result *sim.Result) error {
	doc := runDocument{
		Sim:     simName,
		Dt:      cfg.Dt,
		Ticks:   result.Ticks,
		Seed:    cfg.Seed,
		Metrics: result.Metrics,
		Times:   result.Times,
		Series:  result.Series,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
