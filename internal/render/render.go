// Package render draws widget state as plain text for terminals and the
// /view endpoint.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/vzahanych/weather-widget/internal/weatherapi"
	"github.com/vzahanych/weather-widget/internal/widget"
)

const (
	LoadingIndicator = "[■ ■ ■] Loading..."

	iconSunny  = "☀"
	iconRain   = "☂"
	iconCloudy = "☁"
	iconHaze   = "≋"
)

// Icon maps a condition text to a glyph. Only exact "sunny", "rain" and
// "cloudy" (any case) get their own glyph.
func Icon(condition string) string {
	switch strings.ToLower(condition) {
	case "sunny":
		return iconSunny
	case "rain":
		return iconRain
	case "cloudy":
		return iconCloudy
	default:
		return iconHaze
	}
}

// Weekday returns the short en-US weekday for a forecast date, or the raw
// date if it does not parse.
func Weekday(day weatherapi.ForecastDay) string {
	t, err := day.Time()
	if err != nil {
		return day.Date
	}
	return t.Format("Mon")
}

func Text(w io.Writer, s widget.State) error {
	var b strings.Builder

	if s.Loading {
		b.WriteString(LoadingIndicator)
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	if s.Error != "" {
		fmt.Fprintf(&b, "! %s\n", s.Error)
	}

	if s.Weather != nil {
		if s.Error != "" {
			b.WriteString("\n")
		}
		writePanel(&b, s.Weather)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func String(s widget.State) string {
	var b strings.Builder
	_ = Text(&b, s)
	return b.String()
}

func writePanel(b *strings.Builder, f *weatherapi.Forecast) {
	fmt.Fprintf(b, "%s, %s\n", f.Location.Name, f.Location.Country)
	fmt.Fprintf(b, "%s°C %s\n", temp(f.Current.TempC), Icon(f.Current.Condition.Text))
	fmt.Fprintf(b, "%s\n", f.Current.Condition.Text)

	tw := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Humidity\t%d%%\n", f.Current.Humidity)
	fmt.Fprintf(tw, "Wind\t%s km/h\n", temp(f.Current.WindKph))
	tw.Flush()

	if len(f.Forecast.Days) == 0 {
		return
	}

	b.WriteString("\n")
	tw = tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	for _, day := range f.Forecast.Days {
		fmt.Fprintf(tw, "%s\t%s\t%s°C\t%s°C\t%s\n",
			Weekday(day),
			Icon(day.Day.Condition.Text),
			temp(day.Day.MaxTempC),
			temp(day.Day.MinTempC),
			day.Day.Condition.Text)
	}
	tw.Flush()
}

func temp(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
