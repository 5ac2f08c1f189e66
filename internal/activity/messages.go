package activity

import (
	"strconv"
	"time"

	"dashboard/internal/models"
)

const (
	UserLoggedIn  = "USER_LOGGED_IN"
	UserLoggedOut = "USER_LOGGED_OUT"

	SharerCreated       = "SHARER_CREATED"
	SharerUpdated       = "SHARER_UPDATED"
	SharerDeleted       = "SHARER_DELETED"
	SharerActiveToggled = "SHARER_ACTIVE_TOGGLED"
	SharerPasswordReset = "SHARER_PASSWORD_RESET"
	SharerUsernameSent  = "SHARER_USERNAME_SENT"
	ViewerCreated       = "VIEWER_CREATED"
	ViewerUpdated       = "VIEWER_UPDATED"
	ViewerDeleted       = "VIEWER_DELETED"
	ViewerActiveToggled = "VIEWER_ACTIVE_TOGGLED"
	ViewerPasswordReset = "VIEWER_PASSWORD_RESET"
	ViewerUsernameSent  = "VIEWER_USERNAME_SENT"
	ViewerDataExtracted = "VIEWER_DATA_EXTRACTED"
	FieldCreated        = "FIELD_CREATED"
	FieldUpdated        = "FIELD_UPDATED"
	FieldDeleted        = "FIELD_DELETED"
	FieldsReordered     = "FIELDS_REORDERED"
	OptionCreated       = "OPTION_CREATED"
	OptionUpdated       = "OPTION_UPDATED"
	OptionDeleted       = "OPTION_DELETED"
	FileDownloaded      = "FILE_DOWNLOADED"
	FileViewed          = "FILE_VIEWED"
)

// NewLogFilter stamps the exact-match fields of an activity with the current time.
func NewLogFilter(fields map[string]string) models.LogFilter {
	return models.LogFilter{
		Fields:    fields,
		Timestamp: strconv.FormatInt(time.Now().UnixNano(), 10),
	}
}

// SessionFields are the actor fields every dashboard activity carries.
func SessionFields(session models.Session, action, objectType, objectID string) map[string]string {
	return map[string]string{
		"action":      action,
		"object_type": objectType,
		"object_id":   objectID,
		"user_id":     strconv.FormatInt(session.User.ID, 10),
		"username":    session.User.Username,
		"role":        string(session.User.Role),
	}
}
