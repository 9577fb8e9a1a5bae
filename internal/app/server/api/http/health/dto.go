package health

import "time"

type Input struct{}

type Output struct {
	Body Response
}

type Response struct {
	Status     string    `json:"status" example:"OK"`
	Database   string    `json:"database" example:"up"`
	ServerTime time.Time `json:"server_time" doc:"Server clock, UTC"`
}
