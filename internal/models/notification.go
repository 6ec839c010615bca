package models

// Severity controls how a client styles a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Position is the on-screen anchor a client uses for a notification.
type Position string

const (
	PositionTopRight     Position = "top-right"
	PositionBottomRight  Position = "bottom-right"
	PositionTopLeft      Position = "top-left"
	PositionBottomLeft   Position = "bottom-left"
	PositionTopCenter    Position = "top-center"
	PositionBottomCenter Position = "bottom-center"
)

// Notification is an advisory message. It never drives client state.
type Notification struct {
	Title    string   `json:"title,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"type"`
	Position Position `json:"position,omitempty"`
}
