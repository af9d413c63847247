package stations

// Availability is the display category of an availability count
type Availability string

const (
	AvailabilityEmpty Availability = "empty"
	AvailabilityLow   Availability = "low"
	AvailabilityOK    Availability = "ok"
)

const lowThreshold = 3

// Classify maps a bike or dock count to its marker category:
// 0 is empty, up to 3 is low, anything above is ok.
func Classify(count int) Availability {
	switch {
	case count <= 0:
		return AvailabilityEmpty
	case count <= lowThreshold:
		return AvailabilityLow
	default:
		return AvailabilityOK
	}
}
