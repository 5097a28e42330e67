package it600

import "time"

// Instrument receives timing and decode statistics from a Gateway.
// Nil funcs are ignored.
type Instrument struct {
	RecordExchange func(command string, duration time.Duration, err error)
	RecordDecode   func(bucket string, decoded int, skipped int)
}

func recordExchange(command string, instrument []Instrument) func(err error) {
	if len(instrument) == 0 {
		return func(error) {}
	}

	start := time.Now()
	return func(err error) {
		duration := time.Since(start)
		for i := range instrument {
			if instrument[i].RecordExchange != nil {
				instrument[i].RecordExchange(command, duration, err)
			}
		}
	}
}

func recordDecode(b bucket, decoded, skipped int, instrument []Instrument) {
	for i := range instrument {
		if instrument[i].RecordDecode != nil {
			instrument[i].RecordDecode(b.String(), decoded, skipped)
		}
	}
}
