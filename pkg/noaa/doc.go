// Package noaa implements queries to NOAA CO-OPS to retrieve tide
// predictions. Tide data is requested as a high/low time series per station
// and date range (see PredictionQuery). A successful query returns an
// ordered, alternating list of predictions with time, height, and whether
// each is high or low. All times are station-local.
package noaa
