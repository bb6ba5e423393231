package registration

// TimeSlotOption is one entry of the time-slot selector. Value is part of the
// submission contract; Label is display only.
type TimeSlotOption struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

var timeSlotOptions = []TimeSlotOption{
	{Value: "5-hours", Label: "5 Hours (Minimum)"},
	{Value: "6-hours", Label: "6 Hours"},
	{Value: "7-hours", Label: "7 Hours"},
	{Value: "8-hours", Label: "8 Hours (Full Time)"},
	{Value: "9-hours", Label: "9+ Hours"},
	{Value: "flexible", Label: "Flexible Schedule"},
}

// TimeSlotOptions returns the ordered option list.
func TimeSlotOptions() []TimeSlotOption {
	out := make([]TimeSlotOption, len(timeSlotOptions))
	copy(out, timeSlotOptions)
	return out
}

// TimeSlotValues returns only the option values, in order.
func TimeSlotValues() []string {
	out := make([]string, 0, len(timeSlotOptions))
	for _, opt := range timeSlotOptions {
		out = append(out, opt.Value)
	}
	return out
}

// IsTimeSlot reports whether value is one of the configured option values.
func IsTimeSlot(value string) bool {
	for _, opt := range timeSlotOptions {
		if opt.Value == value {
			return true
		}
	}
	return false
}
