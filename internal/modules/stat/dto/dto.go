package dto

// Overview is the admin dashboard summary.
type Overview struct {
	TotalUsers  int            `json:"total_users"`
	UsersByRole map[string]int `json:"users_by_role"`
	Tables      map[string]int `json:"tables"`
}
