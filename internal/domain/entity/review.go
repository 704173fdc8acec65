package entity

import "time"

// MinPublishableRating is the persistence threshold: submissions below it are
// acknowledged but never stored.
const MinPublishableRating = 3.5

// Review is a published patient review. Only submissions with
// rating >= MinPublishableRating ever reach this table.
type Review struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Review    string    `gorm:"type:text;not null" json:"review"`
	Rating    float64   `gorm:"type:numeric(2,1);not null" json:"rating"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}
