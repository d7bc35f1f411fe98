package slot

type Status string

const (
	StatusAvailable Status = "available"
	StatusBooked    Status = "booked"
)

func (s Status) String() string {
	return string(s)
}

func StatusOf(isBooked bool) Status {
	if isBooked {
		return StatusBooked
	}
	return StatusAvailable
}
