package domain

import "time"

// Weather is a forecast snapshot stored on a trip.
type Weather struct {
	Daily     []WeatherDay `json:"daily"`
	FetchedAt time.Time    `json:"fetchedAt"`
}

// WeatherDay is one day of forecast. Temp is the midpoint of TempMin and TempMax.
type WeatherDay struct {
	Date       string  `json:"date"` // "2006-01-02"
	Temp       float64 `json:"temp"`
	TempMin    float64 `json:"tempMin"`
	TempMax    float64 `json:"tempMax"`
	Conditions string  `json:"conditions"`
	Humidity   int     `json:"humidity"`
}
