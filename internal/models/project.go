package models

import "time"

// Project представляет жилой комплекс — группу объектов недвижимости
// в одной геолокации.
type Project struct {
	UID         string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Longitude   float64 `json:"longitude"`
	Latitude    float64 `json:"latitude"`
	Developer   string  `json:"developer,omitempty"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectWithProperties — проект вместе со списком его объектов.
type ProjectWithProperties struct {
	Project
	Properties []Property `json:"properties"`
}
