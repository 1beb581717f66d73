package models

// TableName is the store table. It is never taken from input.
const TableName = "jobads"

// JobAd is one stored job advertisement: the identifier plus the projected
// fields. Every column is a string and absent source fields hold " ".
type JobAd struct {
	ID         string `gorm:"column:id;primaryKey;size:64" json:"id"`
	Email      string `gorm:"column:email" json:"email"`
	City       string `gorm:"column:city" json:"city"`
	Occupation string `gorm:"column:occupation" json:"occupation"`
}

// TableName overrides the table name used by GORM.
func (JobAd) TableName() string {
	return TableName
}

// ListOptions filters and pages a listing.
type ListOptions struct {
	Limit      int
	Offset     int
	City       string
	Occupation string
}

// Page is a listing response.
type Page struct {
	Items  []JobAd `json:"items"`
	Total  int64   `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}
