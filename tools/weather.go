package tools

import (
	"encoding/json"
	"fmt"
	"strings"
)

type WeatherInput struct {
	City string `json:"city" jsonschema_description:"City to look up, e.g. boston"`
}

var weatherByCity = map[string]string{
	"boston":        "sunny, 80F",
	"san francisco": "windy, 60F",
	"seattle":       "rainy, 55F",
	"chicago":       "overcast, 45F",
	"austin":        "hot, 95F",
	"portland":      "cloudy, 85F",
}

var WeatherDefinition = ToolDefinition{
	Name:        "get_weather_from_city",
	Description: "Return the current weather for the provided city.",
	InputSchema: GenerateSchema[WeatherInput](),
	Function:    getWeather,
}

func getWeather(input json.RawMessage) (string, error) {
	var in WeatherInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	city := strings.ToLower(strings.TrimSpace(in.City))
	w, ok := weatherByCity[city]
	if !ok {
		return "", fmt.Errorf("city %q not in data", city)
	}
	return w, nil
}
