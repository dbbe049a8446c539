package domain

// AQICategory is the US EPA band an AQI value falls into.
type AQICategory string

const (
	CategoryGood               AQICategory = "Good"
	CategoryModerate           AQICategory = "Moderate"
	CategorySensitiveUnhealthy AQICategory = "Unhealthy for Sensitive Groups"
	CategoryUnhealthy          AQICategory = "Unhealthy"
	CategoryVeryUnhealthy      AQICategory = "Very Unhealthy"
	CategoryHazardous          AQICategory = "Hazardous"
)

// CategoryFor classifies an AQI value. Band upper bounds are inclusive.
func CategoryFor(aqi float64) AQICategory {
	switch {
	case aqi <= 50:
		return CategoryGood
	case aqi <= 100:
		return CategoryModerate
	case aqi <= 150:
		return CategorySensitiveUnhealthy
	case aqi <= 200:
		return CategoryUnhealthy
	case aqi <= 300:
		return CategoryVeryUnhealthy
	default:
		return CategoryHazardous
	}
}
