package model

import "time"

type Totals struct {
	TotalDurationSeconds int `json:"totalDurationSeconds"`
	TotalDistractions    int `json:"totalDistractions"`
	TotalSessions        int `json:"totalSessions"`
}

type CategoryTotal struct {
	Name                 string `json:"name"`
	TotalDurationSeconds int    `json:"totalDurationSeconds"`
	Color                string `json:"color"`
}

type DailyTotal struct {
	Date                 time.Time `json:"date"`
	TotalDurationSeconds int       `json:"totalDurationSeconds"`
}
