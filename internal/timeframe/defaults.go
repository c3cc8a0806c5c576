package timeframe

var (
	Minute1  = FromMinutes(1)
	Minute3  = FromMinutes(3)
	Minute5  = FromMinutes(5)
	Minute15 = FromMinutes(15)
	Minute30 = FromMinutes(30)
	Minute45 = FromMinutes(45)
	Hour1    = FromHours(1)
	Hour2    = FromHours(2)
	Hour3    = FromHours(3)
	Hour4    = FromHours(4)
	Day1     = FromDays(1)
	Day3     = FromDays(3)
	Week1    = FromWeeks(1)
)

// Defaults returns the stock timeframes, smallest first.
func Defaults() []TimeFrame {
	return []TimeFrame{
		Minute1, Minute3, Minute5, Minute15, Minute30, Minute45,
		Hour1, Hour2, Hour3, Hour4,
		Day1, Day3,
		Week1,
	}
}

// Parse resolves one of the stock timeframe names, e.g. "1h" or "1d".
func Parse(name string) (TimeFrame, error) {
	for _, tf := range Defaults() {
		if tf.String() == name {
			return tf, nil
		}
	}

	return TimeFrame{}, &UnknownTimeFrameError{Name: name}
}
