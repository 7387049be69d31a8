package models

import "time"

// Типы объектов недвижимости.
const (
	PropertyChalet          = "chalet"
	PropertyApartment       = "apartment"
	PropertyTwinVilla       = "twin_villa"
	PropertyStandaloneVilla = "standalone_villa"
)

// Диапазоны площади.
const (
	AreaLessThan100 = "less_than_100"
	Area100To150    = "100_to_150"
	Area150To200    = "150_to_200"
	AreaOver200     = "over_200"
)

// Диапазоны цены.
const (
	Price2To3Million = "2_to_3_million"
	Price3To4Million = "3_to_4_million"
	Price4To5Million = "4_to_5_million"
	PriceOver5M      = "over_5_million"
)

// Статусы объекта.
const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusSold      = "sold"
)

// Property представляет объект недвижимости внутри проекта.
type Property struct {
	UID         string `json:"id"`
	ProjectUID  string `json:"projectId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	AreaRange   string `json:"areaRange"`
	PriceRange  string `json:"priceRange"`
	Status      string `json:"status"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
