package models

import "time"

// Favourite — связь покупателя с понравившимся объектом недвижимости.
type Favourite struct {
	UID         string    `json:"id"`
	UserUID     string    `json:"userId"`
	PropertyUID string    `json:"propertyId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FavouriteEntry — элемент списка избранного вместе с данными объекта.
type FavouriteEntry struct {
	Favourite
	Property Property `json:"property"`
}

// UserRegisteredEvent публикуется в очередь после успешной регистрации
// и используется отправителем приветственных писем.
type UserRegisteredEvent struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
