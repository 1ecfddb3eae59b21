package models

// RoundCount is the number of rounds in a full 64-team bracket.
const RoundCount = 6

type Round struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}
