package models

type Team struct {
	ID       int    `json:"id"`
	Seed     int    `json:"seed"`
	Name     string `json:"name"`
	RegionID int    `json:"region_id"`

	Region *Region `json:"region,omitempty"`
}
