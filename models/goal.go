package models

import "time"

// Goal holds the objectives a manager sets for a subordinate for one
// interval. One per (interval, target); written only by the target's manager.
type Goal struct {
	GoalID     uint      `gorm:"primaryKey;column:goal_id" json:"goal_id"`
	IntervalID uint      `gorm:"column:interval_id;uniqueIndex:uniq_interval_target" json:"interval_id"`
	TargetID   uint      `gorm:"column:target_id;uniqueIndex:uniq_interval_target" json:"target_id"`
	Text       string    `gorm:"column:text;type:text" json:"text"`
	CreateAt   time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt   time.Time `gorm:"column:update_at" json:"update_at"`

	Interval *Interval `gorm:"foreignKey:IntervalID" json:"interval,omitempty"`
	Target   *User     `gorm:"foreignKey:TargetID" json:"target,omitempty"`
}

func (Goal) TableName() string {
	return "goals"
}
