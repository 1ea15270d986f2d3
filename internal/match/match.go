package match

import (
	"fmt"
	"strings"
)

// ObjectiveType identifies a class of timeline marker
type ObjectiveType string

const (
	ObjectiveFirstBlood ObjectiveType = "blood"
	ObjectiveTurret     ObjectiveType = "turret"
	ObjectiveDragon     ObjectiveType = "dragon"
	ObjectiveBaron      ObjectiveType = "baron"
	ObjectiveHerald     ObjectiveType = "herald"
)

// Objectives lists every supported objective in display order
var Objectives = []ObjectiveType{
	ObjectiveFirstBlood,
	ObjectiveTurret,
	ObjectiveDragon,
	ObjectiveBaron,
	ObjectiveHerald,
}

// ParseObjective converts user input into an ObjectiveType.
// Accepts the canonical names plus "first-blood" and "firstblood", case-insensitive.
func ParseObjective(s string) (ObjectiveType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "blood", "first-blood", "firstblood", "first_blood":
		return ObjectiveFirstBlood, nil
	case "turret", "tower":
		return ObjectiveTurret, nil
	case "dragon":
		return ObjectiveDragon, nil
	case "baron":
		return ObjectiveBaron, nil
	case "herald":
		return ObjectiveHerald, nil
	}
	return "", fmt.Errorf("unknown objective: %q", s)
}

// Discriminator returns the substring that marks an identifier as belonging to this objective
func (o ObjectiveType) Discriminator() string {
	return string(o) + "_"
}

// TeamSide is the side of the map a team plays on. Blue is always the left team.
type TeamSide string

const (
	TeamBlue TeamSide = "blue"
	TeamRed  TeamSide = "red"
	TeamNone TeamSide = "none"
)

// blueDiscriminator is the team id the page embeds in blue-side marker identifiers
const blueDiscriminator = "100"

// Marker is one rendered timeline icon
type Marker struct {
	ID   string   `json:"id"`
	X    float64  `json:"x"`
	Team TeamSide `json:"team"`
}

// NewMarker builds a Marker from a raw identifier and horizontal position.
// The team is decided here so nothing downstream needs to look at the identifier again.
func NewMarker(id string, x float64) Marker {
	team := TeamRed
	if strings.Contains(id, blueDiscriminator) {
		team = TeamBlue
	}
	return Marker{ID: id, X: x, Team: team}
}

// Is reports whether the marker represents an occurrence of the objective
func (m Marker) Is(objective ObjectiveType) bool {
	return strings.Contains(m.ID, objective.Discriminator())
}

// FirstObjective is the team that secured an objective first.
// Team is TeamNone when the objective never occurred.
type FirstObjective struct {
	Objective ObjectiveType `json:"objective"`
	Team      TeamSide      `json:"team"`
}

// Occurred reports whether any team secured the objective
func (f FirstObjective) Occurred() bool {
	return f.Team != TeamNone
}

// TeamRoster holds the team tags for both sides
type TeamRoster struct {
	BlueTeam string `json:"blue_team"`
	RedTeam  string `json:"red_team"`
}

// Tag returns the team tag playing on the given side, or "" for TeamNone
func (r TeamRoster) Tag(side TeamSide) string {
	switch side {
	case TeamBlue:
		return r.BlueTeam
	case TeamRed:
		return r.RedTeam
	}
	return ""
}

// Summary combines everything extracted from one match-history page
type Summary struct {
	URL            string         `json:"url"`
	Date           *GameDate      `json:"date"`
	Teams          TeamRoster     `json:"teams"`
	FirstObjective FirstObjective `json:"first_objective"`
}

// Winner returns the team tag that secured the first objective, or "" if it never happened
func (s *Summary) Winner() string {
	return s.Teams.Tag(s.FirstObjective.Team)
}
