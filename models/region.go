package models

type Region struct {
	ID     int    `json:"id"`
	PoolID int    `json:"pool_id"`
	Name   string `json:"name"`
}
