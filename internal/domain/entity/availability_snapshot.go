package entity

// Slot status labels
const (
	SlotStatusAvailable = "available"
	SlotStatusBooked    = "booked"
)

// AvailabilitySnapshot is the derived availability of one staff member on one
// date. It is recomputed on every query and never persisted.
type AvailabilitySnapshot struct {
	Grid           []string
	AvailableSlots []string
	BookedSlots    []string
	TotalSlots     int
	FreeCount      int
	BookedCount    int
}

// BuildSnapshot subtracts booked labels from the grid, preserving grid order.
// Booked labels that are not on the grid are ignored so that available and
// booked always partition the grid.
func BuildSnapshot(grid []string, booked []string) AvailabilitySnapshot {
	bookedSet := make(map[string]struct{}, len(booked))
	for _, b := range booked {
		bookedSet[b] = struct{}{}
	}

	available := make([]string, 0, len(grid))
	taken := make([]string, 0)
	for _, slot := range grid {
		if _, ok := bookedSet[slot]; ok {
			taken = append(taken, slot)
			continue
		}
		available = append(available, slot)
	}

	return AvailabilitySnapshot{
		Grid:           grid,
		AvailableSlots: available,
		BookedSlots:    taken,
		TotalSlots:     len(grid),
		FreeCount:      len(available),
		BookedCount:    len(taken),
	}
}

// IsBooked reports whether slot is taken in this snapshot
func (s AvailabilitySnapshot) IsBooked(slot string) bool {
	for _, b := range s.BookedSlots {
		if b == slot {
			return true
		}
	}
	return false
}
