package models

// DailyStat is one calendar day of sharing activity.
type DailyStat struct {
	Date       Date  `json:"date"`
	FileCount  int64 `json:"file_count"`
	BatchCount int64 `json:"batch_count"`
}

// MonthlyStat is pre-aggregated by the backend.
type MonthlyStat struct {
	Label      string `json:"label"`
	FileCount  int64  `json:"file_count"`
	BatchCount int64  `json:"batch_count"`
}

type LoginStat struct {
	Date          Date  `json:"date"`
	TotalLogins   int64 `json:"total_logins"`
	QRLogins      int64 `json:"qr_logins"`
	ClassicLogins int64 `json:"classic_logins"`
}

type TopSharerLogins struct {
	SharerID   int64  `json:"sharer_id"`
	Nominativo string `json:"nominativo"`
	Logins     int64  `json:"logins"`
}

type TotalStats struct {
	TotalFiles        int64 `json:"total_files"`
	TotalBatches      int64 `json:"total_batches"`
	FilesLast30Days   int64 `json:"files_last_30_days"`
	BatchesLast30Days int64 `json:"batches_last_30_days"`
}

// ChartBucket is one point of a dashboard chart.
type ChartBucket struct {
	Label      string `json:"label"`
	Start      Date   `json:"start"`
	End        Date   `json:"end"`
	FileCount  int64  `json:"file_count"`
	BatchCount int64  `json:"batch_count"`
}

// LoginBucket is one point of the login chart.
type LoginBucket struct {
	Label         string `json:"label"`
	Start         Date   `json:"start"`
	End           Date   `json:"end"`
	TotalLogins   int64  `json:"total_logins"`
	QRLogins      int64  `json:"qr_logins"`
	ClassicLogins int64  `json:"classic_logins"`
}

type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// Delta compares one aggregate count against the preceding period.
type Delta struct {
	Current  int64    `json:"current"`
	Previous int64    `json:"previous"`
	Value    int64    `json:"value"`
	Display  string   `json:"display"`
	Trend    Trend    `json:"trend"`
	Percent  *float64 `json:"percent,omitempty"`
}

type Comparison struct {
	Files   Delta  `json:"files"`
	Batches Delta  `json:"batches"`
	Label   string `json:"label"`
}

type LoginComparison struct {
	Logins Delta  `json:"logins"`
	Label  string `json:"label"`
}

// DashboardQueryParams selects the period shown by a dashboard.
type DashboardQueryParams struct {
	Preset   string `json:"preset"    validate:"omitempty,oneof=last7days last30days last3months last6months last12months total custom"`
	From     string `json:"from"      validate:"required_if=Preset custom,omitempty,datetime=2006-01-02"`
	To       string `json:"to"        validate:"required_if=Preset custom,omitempty,datetime=2006-01-02"`
	ZeroFill bool   `json:"zero_fill"`
}

type DashboardPeriod struct {
	Preset string `json:"preset"`
	From   *Date  `json:"from,omitempty"`
	To     *Date  `json:"to,omitempty"`
	Days   int    `json:"days,omitempty"`
}

type DashboardResponse struct {
	Period     DashboardPeriod `json:"period"`
	Totals     TotalStats      `json:"totals"`
	Chart      []ChartBucket   `json:"chart"`
	Comparison Comparison      `json:"comparison"`
}

type LoginDashboardResponse struct {
	Period     DashboardPeriod   `json:"period"`
	Chart      []LoginBucket     `json:"chart"`
	Comparison LoginComparison   `json:"comparison"`
	TopSharers []TopSharerLogins `json:"top_sharers"`
}

type MonthlyResponse struct {
	Totals  TotalStats    `json:"totals"`
	Monthly []MonthlyStat `json:"monthly"`
}

type TopSharersResponse struct {
	Period     DashboardPeriod   `json:"period"`
	TopSharers []TopSharerLogins `json:"top_sharers"`
}
