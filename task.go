package mrtopo

// DepotIndex is reserved point (and task) index of the depot
const DepotIndex = 0

// Side is a traversal side of maintenance work-zone
type Side uint16

const (
	SIDE_LEFT = Side(iota + 1)
	SIDE_RIGHT
	SIDE_UNDEFINED
)

func (iotaIdx Side) String() string {
	return [...]string{"left", "right", "undefined"}[iotaIdx-1]
}

// SideFromString returns Side for given string representation. Anything but
// "left"/"right" is considered undefined
func SideFromString(side string) Side {
	switch side {
	case "left":
		return SIDE_LEFT
	case "right":
		return SIDE_RIGHT
	default:
		return SIDE_UNDEFINED
	}
}

// TaskID is an identifier of maintenance work-zone in task topology. Depot
// always takes ID = 0, tasks are numbered sequentially in discovery order
type TaskID int

// TaskPoint is a maintenance work-zone modeled as directed road segment:
// vehicle enters at origin and leaves at destination
type TaskPoint struct {
	ID               TaskID
	OriginIndex      int
	DestinationIndex int
	Origin           GeoPoint
	Destination      GeoPoint
	Side             Side
	// ProcessingTime is service time (minutes) spent at work-zone
	ProcessingTime float64
}

// enumerateTasks assigns task IDs and point indices in discovery order.
// Point indices are globally unique: depot owns index 0, k-th task (1-based)
// owns indices 2k-1 (origin) and 2k (destination)
func enumerateTasks(tasks []*TaskPoint) {
	for i, task := range tasks {
		task.ID = TaskID(i + 1)
		task.OriginIndex = 2*i + 1
		task.DestinationIndex = 2*i + 2
	}
}
