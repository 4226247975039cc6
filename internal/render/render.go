// Package render formats lookup results and lifecycle snapshots as plain
// text for the command line client.
package render

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/state"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/weather"
)

const loadingText = "Loading..."

// Current writes the single temperature line. The city is echoed as typed.
func Current(w io.Writer, res models.CurrentResult) error {
	_, err := fmt.Fprintf(w, "Current temperature in %s: %s°C\n", res.City, formatTemp(res.Temperature))
	return err
}

// Forecast writes one row per day in upstream order.
func Forecast(w io.Writer, res models.ForecastResult) error {
	if _, err := fmt.Fprintf(w, "5-day forecast for %s\n", res.City); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "Date\tMin (°C)\tMax (°C)\tWeather"); err != nil {
		return err
	}
	for _, d := range res.Days {
		_, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			d.Date,
			formatTemp(d.TemperatureMin),
			formatTemp(d.TemperatureMax),
			weather.Describe(d.WeatherCode),
		)
		if err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Status writes the pending indicator or the failure message for snap.
// Idle and succeeded snapshots produce no output.
func Status(w io.Writer, snap state.Snapshot) error {
	var err error
	switch snap.Phase {
	case state.Pending:
		_, err = fmt.Fprintln(w, loadingText)
	case state.Failed:
		_, err = fmt.Fprintln(w, snap.Message)
	}
	return err
}

func formatTemp(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
