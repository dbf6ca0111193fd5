package domain

import (
	"sort"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Candidate is a provisional start time together with the length it would occupy
type Candidate struct {
	StartTime       types.TimeString
	DurationMinutes int
}

// EndTime returns StartTime + DurationMinutes
func (c Candidate) EndTime() (types.TimeString, error) {
	return c.StartTime.AddMinutes(c.DurationMinutes)
}

// ResolveCandidates enumerates start times inside the given windows.
//
// Each window is scanned from its start in ScanGranularityMinutes steps and a
// start is proposed while start+duration still fits before the window end; a
// tail shorter than the duration is dropped. The duration is serviceDuration
// when given, otherwise the window's own slot duration.
//
// Overlapping windows may propose the same start; the result is sorted by
// start time and keeps the first proposal for each start.
// Malformed windows are skipped.
func ResolveCandidates(windows []*AvailabilitySlot, serviceDuration *int) []Candidate {
	candidates := make([]Candidate, 0)

	for _, w := range windows {
		start, err := w.StartTime.Minutes()
		if err != nil {
			continue
		}
		end, err := w.EndTime.Minutes()
		if err != nil || start >= end {
			continue
		}

		duration := w.SlotDurationMinutes
		if serviceDuration != nil {
			duration = *serviceDuration
		}
		if duration <= 0 {
			duration = DefaultSlotDurationMinutes
		}

		for cur := start; cur+duration <= end; cur += ScanGranularityMinutes {
			ts, err := types.FromMinutes(cur)
			if err != nil {
				break
			}
			candidates = append(candidates, Candidate{StartTime: ts, DurationMinutes: duration})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].StartTime.IsBefore(candidates[j].StartTime)
	})

	result := make([]Candidate, 0, len(candidates))
	for i, c := range candidates {
		if i > 0 && c.StartTime.Equal(result[len(result)-1].StartTime) {
			continue
		}
		result = append(result, c)
	}

	return result
}

// FilterAvailable drops every candidate whose [start, end) intersects an
// active appointment. Intervals that only touch are not a conflict.
// The input order is preserved.
func FilterAvailable(candidates []Candidate, appointments []*Appointment) []Candidate {
	result := make([]Candidate, 0, len(candidates))

	for _, c := range candidates {
		end, err := c.EndTime()
		if err != nil {
			continue
		}
		if !conflicts(c.StartTime, end, appointments) {
			result = append(result, c)
		}
	}

	return result
}

func conflicts(start, end types.TimeString, appointments []*Appointment) bool {
	for _, appt := range appointments {
		if appt.IsActive() && appt.Overlaps(start, end) {
			return true
		}
	}
	return false
}
