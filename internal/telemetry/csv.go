package telemetry

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/novacore/internal/loop"
)

// Filename is the suggested name for CSV downloads.
const Filename = "telemetry.csv"

var Header = []string{"time_s", "time_min", "co2_mol", "o2_mol", "temp_c", "humidity_au"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes the header and one row per step.
func WriteCSV(w io.Writer, tr *loop.Trajectory) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return err
	}

	row := make([]string, len(Header))
	for i := 0; i < tr.Len(); i++ {
		s := tr.Sample(i)
		row[0] = formatFloat(s.Time)
		row[1] = formatFloat(s.Time / 60)
		row[2] = formatFloat(s.CO2)
		row[3] = formatFloat(s.O2)
		row[4] = formatFloat(s.Temp)
		row[5] = formatFloat(s.Humidity)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
