package stations

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		count int
		want  Availability
	}{
		{-1, AvailabilityEmpty},
		{0, AvailabilityEmpty},
		{1, AvailabilityLow},
		{3, AvailabilityLow},
		{4, AvailabilityOK},
		{40, AvailabilityOK},
	}
	for _, tc := range tests {
		if got := Classify(tc.count); got != tc.want {
			t.Errorf("Classify(%d) = %s, want %s", tc.count, got, tc.want)
		}
	}
}
