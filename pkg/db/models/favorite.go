package models

import "time"

// Favorite links a user to a saved service.
type Favorite struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null;index:favorites_user_id_idx;uniqueIndex:favorites_user_service_key"`
	ServiceID int64     `gorm:"column:service_id;not null;uniqueIndex:favorites_user_service_key"`
	Service   *Service  `gorm:"foreignKey:ServiceID;references:ID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
