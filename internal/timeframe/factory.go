package timeframe

import "fmt"

// FromSeconds creates a timeframe from a number of seconds.
func FromSeconds(seconds float64) TimeFrame {
	return New(fmt.Sprintf("%vs", seconds), seconds)
}

// FromMinutes creates a timeframe from a number of minutes.
func FromMinutes(minutes float64) TimeFrame {
	return New(fmt.Sprintf("%vm", minutes), minutes*60)
}

// FromHours creates a timeframe from a number of hours.
func FromHours(hours float64) TimeFrame {
	return New(fmt.Sprintf("%vh", hours), hours*60*60)
}

// FromDays creates a timeframe from a number of days.
func FromDays(days float64) TimeFrame {
	return New(fmt.Sprintf("%vd", days), days*24*60*60)
}

// FromWeeks creates a timeframe from a number of weeks.
func FromWeeks(weeks float64) TimeFrame {
	return New(fmt.Sprintf("%vw", weeks), weeks*7*24*60*60)
}
