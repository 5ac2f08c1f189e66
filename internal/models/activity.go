package models

type LogFilter struct {
	Fields    map[string]string `json:"fields"`
	Timestamp string            `json:"timestamp"`
}

type Activity struct {
	Message string    `json:"message"`
	Object  any       `json:"object"`
	Filter  LogFilter `json:"filter"`
}

type ActivityQueryParams struct {
	Action     string `json:"action"      validate:"omitempty,max=64"`
	ObjectType string `json:"object_type" validate:"omitempty,oneof=sharer viewer field option session file"`
	UserID     string `json:"user_id"     validate:"omitempty,numeric"`
	Days       int    `json:"days"        validate:"omitempty,oneof=7 30 90"`
}

// TimeSeriesPoint represents a data point in a time series chart.
type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Actions recorded in the activity log.
const (
	ActionCreate        = "create"
	ActionUpdate        = "update"
	ActionDelete        = "delete"
	ActionToggleActive  = "toggle_active"
	ActionResetPassword = "reset_password"
	ActionSendUsername  = "send_username"
	ActionReorder       = "reorder"
	ActionExtract       = "extract"
	ActionLogin         = "login"
	ActionLogout        = "logout"
	ActionDownload      = "download"
	ActionView          = "view"
)

// Object types recorded in the activity log.
const (
	ObjectSharer  = "sharer"
	ObjectViewer  = "viewer"
	ObjectField   = "field"
	ObjectOption  = "option"
	ObjectSession = "session"
	ObjectFile    = "file"
)
