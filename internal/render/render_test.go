package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vzahanych/weather-widget/internal/weatherapi"
	"github.com/vzahanych/weather-widget/internal/widget"
)

func sampleForecast() *weatherapi.Forecast {
	return &weatherapi.Forecast{
		Location: weatherapi.Location{Name: "London", Country: "United Kingdom"},
		Current: weatherapi.Current{
			TempC:     17.2,
			Condition: weatherapi.Condition{Text: "Sunny"},
			Humidity:  64,
			WindKph:   14.4,
		},
		Forecast: weatherapi.ForecastDays{Days: []weatherapi.ForecastDay{
			{Date: "2025-05-30", Day: weatherapi.DaySummary{MaxTempC: 19.4, MinTempC: 11.1, Condition: weatherapi.Condition{Text: "Cloudy"}}},
			{Date: "2025-05-31", Day: weatherapi.DaySummary{MaxTempC: 16, MinTempC: 10.2, Condition: weatherapi.Condition{Text: "Rain"}}},
			{Date: "2025-06-01", Day: weatherapi.DaySummary{MaxTempC: 21, MinTempC: 12.5, Condition: weatherapi.Condition{Text: "Patchy rain nearby"}}},
		}},
	}
}

func TestIcon(t *testing.T) {
	assert.Equal(t, iconSunny, Icon("Sunny"))
	assert.Equal(t, iconRain, Icon("RAIN"))
	assert.Equal(t, iconCloudy, Icon("cloudy"))
	assert.Equal(t, iconHaze, Icon("Partly cloudy"))
	assert.Equal(t, iconHaze, Icon(""))
}

func TestWeekday(t *testing.T) {
	assert.Equal(t, "Fri", Weekday(weatherapi.ForecastDay{Date: "2025-05-30"}))
	assert.Equal(t, "Sun", Weekday(weatherapi.ForecastDay{Date: "2025-06-01"}))
	assert.Equal(t, "soon", Weekday(weatherapi.ForecastDay{Date: "soon"}))
}

func TestTextLoading(t *testing.T) {
	out := String(widget.State{Loading: true, Error: "ignored", Weather: sampleForecast()})

	assert.Equal(t, LoadingIndicator+"\n", out)
}

func TestTextIdle(t *testing.T) {
	assert.Empty(t, String(widget.State{}))
}

func TestTextFailure(t *testing.T) {
	out := String(widget.State{Error: "Unable to get your location"})

	assert.Equal(t, "! Unable to get your location\n", out)
}

func TestTextSuccess(t *testing.T) {
	out := String(widget.State{Weather: sampleForecast()})

	assert.True(t, strings.HasPrefix(out, "London, United Kingdom\n17.2°C ☀\nSunny\n"))
	assert.Contains(t, out, "Humidity  64%")
	assert.Contains(t, out, "Wind      14.4 km/h")
	assert.Contains(t, out, "Fri")
	assert.Contains(t, out, "19.4°C")
	assert.Contains(t, out, "Patchy rain nearby")
	assert.NotContains(t, out, "!")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "Sun"))
}

func TestTextFailureKeepsPanel(t *testing.T) {
	out := String(widget.State{Error: "Failed to fetch weather data", Weather: sampleForecast()})

	assert.True(t, strings.HasPrefix(out, "! Failed to fetch weather data\n\nLondon, United Kingdom"))
}
