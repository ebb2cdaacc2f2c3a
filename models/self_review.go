package models

import "time"

// Self-review statuses.
const (
	SelfReviewDraft     = "draft"
	SelfReviewRejected  = "rejected"
	SelfReviewPending   = "pending"
	SelfReviewPublished = "published"
)

// SelfReview is an employee's own write-up for one interval. One per
// (interval, user); never deleted. The author edits text while the record is
// editable, the author's manager sets comment together with the
// rejected/published decision.
type SelfReview struct {
	SelfReviewID uint      `gorm:"primaryKey;column:self_review_id" json:"self_review_id"`
	IntervalID   uint      `gorm:"column:interval_id;uniqueIndex:uniq_interval_user" json:"interval_id"`
	UserID       uint      `gorm:"column:user_id;uniqueIndex:uniq_interval_user" json:"user_id"`
	Text         string    `gorm:"column:text;type:text" json:"text"`
	Comment      string    `gorm:"column:comment;type:text" json:"comment"`
	Status       string    `gorm:"column:status" json:"status"`
	CreateAt     time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     time.Time `gorm:"column:update_at" json:"update_at"`

	Interval *Interval `gorm:"foreignKey:IntervalID" json:"interval,omitempty"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (SelfReview) TableName() string {
	return "self_reviews"
}

// IsEditable reports whether the author may still change the text.
func (s *SelfReview) IsEditable() bool {
	return s.Status == SelfReviewDraft || s.Status == SelfReviewRejected
}

func (s *SelfReview) IsRejected() bool {
	return s.Status == SelfReviewRejected
}

func (s *SelfReview) IsPending() bool {
	return s.Status == SelfReviewPending
}

func (s *SelfReview) IsPublished() bool {
	return s.Status == SelfReviewPublished
}
