package openf1

import "time"

// DTOs crus da API OpenF1 (https://api.openf1.org/v1)

type sessionRaw struct {
	SessionKey  int64     `json:"session_key"`
	SessionName string    `json:"session_name"`
	SessionType string    `json:"session_type"`
	CountryName string    `json:"country_name"`
	DateStart   time.Time `json:"date_start"`
	Year        int       `json:"year"`
}

type driverRaw struct {
	DriverNumber int64  `json:"driver_number"`
	FullName     string `json:"full_name"`
	TeamName     string `json:"team_name"`
}

type positionRaw struct {
	DriverNumber int64 `json:"driver_number"`
	Position     int   `json:"position"`
}
