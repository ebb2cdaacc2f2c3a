package models

import "time"

// Interval statuses. An administrator advances them by hand; nothing in the
// core validates the progression beyond membership in this set.
const (
	IntervalPending  = "pending"
	IntervalStarted  = "started"
	IntervalFinished = "finished"
)

// Interval is a review cycle (quarter), e.g. "2018Q2". Every self-review,
// peer review and goal is scoped to exactly one interval.
type Interval struct {
	IntervalID uint      `gorm:"primaryKey;column:interval_id" json:"interval_id"`
	Name       string    `gorm:"column:name;size:10" json:"name"`
	Status     string    `gorm:"column:status" json:"status"`
	CreateAt   time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt   time.Time `gorm:"column:update_at" json:"update_at"`
}

func (Interval) TableName() string {
	return "intervals"
}

func (i *Interval) IsStarted() bool {
	return i.Status == IntervalStarted
}
