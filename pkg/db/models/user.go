package models

import "time"

// User is an account created through the storefront register flow.
type User struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Email         string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash  string    `gorm:"column:password_hash;not null"`
	Name          string    `gorm:"column:name;not null"`
	Phone         string    `gorm:"column:phone;not null"`
	BirthDate     *time.Time `gorm:"column:birth_date"`
	EmailVerified bool      `gorm:"column:email_verified;not null;default:false"`
	BonusPoints   int       `gorm:"column:bonus_points;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
