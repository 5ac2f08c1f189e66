package backend

// REST backend endpoints. Paths with %d take record ids in order.
const (
	pathLogin  = "/api/auth/login/"
	pathLogout = "/api/auth/logout/"

	pathTotalStats      = "/api/stats/totals/"
	pathMonthlyStats    = "/api/stats/monthly/"
	pathDailyStats      = "/api/stats/daily/"
	pathDailyLoginStats = "/api/stats/logins/daily/"
	pathTopSharerLogins = "/api/stats/logins/top-sharers/"

	pathSharerTotalStats = "/api/sharer/stats/totals/"
	pathSharerDailyStats = "/api/sharer/stats/daily/"

	pathSharers             = "/api/sharers/"
	pathSharer              = "/api/sharers/%d/"
	pathSharerToggleActive  = "/api/sharers/%d/toggle-active/"
	pathSharerResetPassword = "/api/sharers/%d/reset-password/"
	pathSharerSendUsername  = "/api/sharers/%d/send-username/"

	pathViewers             = "/api/viewers/"
	pathViewer              = "/api/viewers/%d/"
	pathViewerToggleActive  = "/api/viewers/%d/toggle-active/"
	pathViewerResetPassword = "/api/viewers/%d/reset-password/"
	pathViewerSendUsername  = "/api/viewers/%d/send-username/"
	pathViewerExtract       = "/api/viewers/extract/"

	pathDocumentClasses = "/api/document-classes/"
	pathClassFields     = "/api/document-classes/%d/fields/"
	pathClassField      = "/api/document-classes/%d/fields/%d/"
	pathClassReorder    = "/api/document-classes/%d/fields/reorder/"
	pathFieldOptions    = "/api/fields/%d/options/"
	pathFieldOption     = "/api/fields/%d/options/%d/"

	pathSharerBatches = "/api/sharer/batches/"
	pathSharerBatch   = "/api/sharer/batches/%d/"
	pathViewerBatches = "/api/viewer/batches/"

	pathFileDownload = "/api/files/%d/download/"
	pathFileViewURL  = "/api/files/%d/view-url/"
)

// Query parameter names of the stats endpoints.
const (
	queryStartDate = "start_date"
	queryEndDate   = "end_date"
)
