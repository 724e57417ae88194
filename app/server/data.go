package server

import "bookbot/app/calendar"

const (
	StatusSuccess  = "success"
	StatusConflict = "conflict"
)

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type ChatResponse struct {
	Response         string          `json:"response"`
	Status           string          `json:"status"`
	AlternativeSlots []calendar.Slot `json:"alternative_slots"`
}
