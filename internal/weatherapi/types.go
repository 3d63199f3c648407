package weatherapi

import (
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// Query is either a free-text city name or a "lat,lon" pair.
type Query string

func City(name string) Query {
	return Query(name)
}

// Coordinates formats a position with the shortest exact decimal form, e.g. "51.5,-0.12".
func Coordinates(lat, lon float64) Query {
	return Query(strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64))
}

func (q Query) IsEmpty() bool {
	return q == ""
}

func (q Query) String() string {
	return string(q)
}

// Forecast mirrors the forecast.json response document.
type Forecast struct {
	Location Location     `json:"location"`
	Current  Current      `json:"current"`
	Forecast ForecastDays `json:"forecast"`
}

type Location struct {
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	LocalTime string  `json:"localtime"`
}

type Condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

type Current struct {
	TempC      float64   `json:"temp_c"`
	FeelsLikeC float64   `json:"feelslike_c"`
	Condition  Condition `json:"condition"`
	Humidity   int       `json:"humidity"`
	WindKph    float64   `json:"wind_kph"`
	IsDay      int       `json:"is_day"`
}

type ForecastDays struct {
	Days []ForecastDay `json:"forecastday"`
}

type ForecastDay struct {
	Date string     `json:"date"`
	Day  DaySummary `json:"day"`
}

type DaySummary struct {
	MaxTempC  float64   `json:"maxtemp_c"`
	MinTempC  float64   `json:"mintemp_c"`
	Condition Condition `json:"condition"`
}

// Time parses Date as a calendar day in UTC.
func (d ForecastDay) Time() (time.Time, error) {
	return time.Parse(dateLayout, d.Date)
}

// apiError is the error envelope WeatherAPI returns with non-2xx responses.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
