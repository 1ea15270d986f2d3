package match

// Resolve determines which team secured the objective first.
//
// The earliest marker is the leftmost one on the timeline. Markers sharing the smallest X are
// resolved in favour of the one that appears first in the input. When no marker matches, the
// result carries TeamNone.
func Resolve(markers []Marker, objective ObjectiveType) FirstObjective {
	var first *Marker
	for i := range markers {
		m := &markers[i]
		if !m.Is(objective) {
			continue
		}
		if first == nil || m.X < first.X {
			first = m
		}
	}

	if first == nil {
		return FirstObjective{Objective: objective, Team: TeamNone}
	}

	return FirstObjective{Objective: objective, Team: first.Team}
}
