package mrtopo

import (
	"math"
)

// ProcessingTimePolicy controls whether service time of the target work-zone
// is added on top of travel time when chaining tasks. Both historical
// behaviors of the pipeline are preserved as distinct named modes
type ProcessingTimePolicy uint16

const (
	// PROCESSING_TIME_EXCLUDED: travel time only
	PROCESSING_TIME_EXCLUDED = ProcessingTimePolicy(iota + 1)
	// PROCESSING_TIME_INCLUDED: travel time plus applicable service time
	PROCESSING_TIME_INCLUDED
)

func (iotaIdx ProcessingTimePolicy) String() string {
	return [...]string{"processing_time_excluded", "processing_time_included"}[iotaIdx-1]
}

// TaskPair is ordered pair of task IDs (depot is task ID 0)
type TaskPair struct {
	From TaskID
	To   TaskID
}

// TaskTopology maps ordered task pair to travel time in minutes. Directed
// and sparse: pairs whose source task has undefined side are omitted
type TaskTopology map[TaskPair]float64

// travelMinutes converts raw path length in meters to minutes, matching the
// fixed speed convention embedded in the input weighting
func travelMinutes(meters float64) float64 {
	return meters / 60.0 / 1000.0
}

// TaskTravelTimes derives the directional task-to-task travel time table
// from the point topology.
//
// Rules per ordered pair:
//   - depot -> task: path from depot to the task's destination point;
//     task's own processing time added under PROCESSING_TIME_INCLUDED;
//   - task -> depot: path from the task's destination point back to depot,
//     processing time never added on this leg;
//   - task a -> task b: for side "right" path a.destination -> b.origin plus
//     b's processing time, for side "left" path b.origin -> a.destination
//     plus a's processing time (under PROCESSING_TIME_INCLUDED), for
//     undefined side the pair is omitted.
//
// A pair with no road path keeps +Inf travel time: downstream optimizer
// treats it as a forbidden transition
func (topology *Topology) TaskTravelTimes(policy ProcessingTimePolicy) TaskTopology {
	taskTopology := make(TaskTopology)
	for _, task := range topology.Tasks {
		toTask := travelMinutes(topology.pointDistance(DepotIndex, task.DestinationIndex))
		if policy == PROCESSING_TIME_INCLUDED {
			toTask += task.ProcessingTime
		}
		taskTopology[TaskPair{DepotIndex, task.ID}] = toTask

		toDepot := travelMinutes(topology.pointDistance(task.DestinationIndex, DepotIndex))
		taskTopology[TaskPair{task.ID, DepotIndex}] = toDepot

		for _, next := range topology.Tasks {
			if task.ID == next.ID {
				continue
			}
			switch task.Side {
			case SIDE_RIGHT:
				travel := travelMinutes(topology.pointDistance(task.DestinationIndex, next.OriginIndex))
				if policy == PROCESSING_TIME_INCLUDED {
					travel += next.ProcessingTime
				}
				taskTopology[TaskPair{task.ID, next.ID}] = travel
			case SIDE_LEFT:
				travel := travelMinutes(topology.pointDistance(next.OriginIndex, task.DestinationIndex))
				if policy == PROCESSING_TIME_INCLUDED {
					travel += task.ProcessingTime
				}
				taskTopology[TaskPair{task.ID, next.ID}] = travel
			default:
				// Undefined side: the pair is silently omitted
			}
		}
	}
	return taskTopology
}

// pointDistance returns raw meters between two point indices. A pair missing
// from the table is treated as unreachable rather than zero
func (topology *Topology) pointDistance(from, to int) float64 {
	if meters, ok := topology.Points[PointPair{from, to}]; ok {
		return meters
	}
	return math.Inf(1)
}
