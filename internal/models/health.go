package models

type HealthResponse struct {
	Status    string `json:"status"`
	Cache     string `json:"cache"`
	Database  string `json:"database"`
	Instances int64  `json:"instances"`
}
