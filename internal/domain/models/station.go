package models

import "strings"

// StationState - состояние кассового места.
type StationState int

const (
	StationClosed StationState = iota
	StationOpen
)

func (s StationState) String() string {
	if s == StationOpen {
		return "OPEN"
	}
	return "CLOSED"
}

// ParseStationState разбирает "open"/"closed" без учета регистра.
func ParseStationState(s string) (StationState, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return StationOpen, true
	case "closed":
		return StationClosed, true
	}
	return StationClosed, false
}
