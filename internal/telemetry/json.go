package telemetry

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/san-kum/novacore/internal/experiment"
	"github.com/san-kum/novacore/internal/loop"
)

// Summary is the wire form of loop.Summary.
type Summary struct {
	Steps         int   `json:"steps"`
	FinalCO2      Float `json:"final_co2_mol"`
	FinalO2       Float `json:"final_o2_mol"`
	FinalTemp     Float `json:"final_temp_c"`
	FinalHumidity Float `json:"final_humidity_au"`
}

func newSummary(s loop.Summary) Summary {
	return Summary{
		Steps:         s.Steps,
		FinalCO2:      Float(s.FinalCO2),
		FinalO2:       Float(s.FinalO2),
		FinalTemp:     Float(s.FinalTemp),
		FinalHumidity: Float(s.FinalHumidity),
	}
}

type ExportData struct {
	ID       string           `json:"id"`
	Params   loop.Params      `json:"params"`
	Summary  Summary          `json:"summary"`
	Metrics  map[string]Float `json:"metrics"`
	Time     []Float          `json:"time_s"`
	CO2      []Float          `json:"co2_mol"`
	O2       []Float          `json:"o2_mol"`
	Temp     []Float          `json:"temp_c"`
	Humidity []Float          `json:"humidity_au"`
}

func NewExportData(result *experiment.Result) ExportData {
	tr := result.Trajectory
	metrics := make(map[string]Float, len(result.Metrics))
	for name, v := range result.Metrics {
		metrics[name] = Float(v)
	}
	return ExportData{
		ID:       result.ID,
		Params:   result.Params,
		Summary:  newSummary(result.Summary),
		Metrics:  metrics,
		Time:     floats(tr.Times()),
		CO2:      floats(tr.CO2()),
		O2:       floats(tr.O2()),
		Temp:     floats(tr.Temp()),
		Humidity: floats(tr.Humidity()),
	}
}

// WriteJSON encodes the whole document before writing, so w receives
// either all of it or nothing.
func WriteJSON(w io.Writer, result *experiment.Result) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewExportData(result)); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
