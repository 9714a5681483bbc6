package models

import (
	"time"

	"github.com/modamarket/backend/pkg/enums"
)

// FAQItem is a question/answer pair shown on the board page.
type FAQItem struct {
	ID        int64             `gorm:"column:id;primaryKey;autoIncrement"`
	Category  enums.FAQCategory `gorm:"column:category;index;not null"`
	Question  string            `gorm:"column:question;not null"`
	Answer    string            `gorm:"column:answer;not null"`
	Position  int               `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}
