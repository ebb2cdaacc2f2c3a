package models

import "time"

// Peer review statuses.
const (
	ReviewRequested = "requested" // created by peer selection, not yet actionable
	ReviewDraft     = "draft"     // promoted when the target's self-review is published
	ReviewRejected  = "rejected"
	ReviewPending   = "pending"
	ReviewHidden    = "hidden"    // approved, score/text concealed from the target
	ReviewPublished = "published" // approved and visible to the target
)

// Review scores. ScoreNone means the reviewer did not interact with the
// target enough to evaluate, and lifts the commentary-text requirement.
const (
	ScoreFarExceeds = "5"
	ScoreExceeds    = "4"
	ScoreMeets      = "3"
	ScoreBelow      = "2"
	ScoreFarBelow   = "1"
	ScoreNone       = "-"
)

var ScoreLabels = map[string]string{
	ScoreFarExceeds: "Far exceeds expectations",
	ScoreExceeds:    "Exceeds expectations",
	ScoreMeets:      "Meets expectations",
	ScoreBelow:      "Below expectations",
	ScoreFarBelow:   "Far below expectations",
	ScoreNone:       "Did not interact, cannot evaluate",
}

// Review is peer feedback from reviewer to target within one interval. The
// reviewer writes score and text, the target's manager approves with comment.
// Deleted only while still requested, through peer selection.
type Review struct {
	ReviewID   uint      `gorm:"primaryKey;column:review_id" json:"review_id"`
	IntervalID uint      `gorm:"column:interval_id" json:"interval_id"`
	ReviewerID uint      `gorm:"column:reviewer_id" json:"reviewer_id"`
	TargetID   uint      `gorm:"column:target_id" json:"target_id"`
	Status     string    `gorm:"column:status" json:"status"`
	Text       string    `gorm:"column:text;type:text" json:"text"`
	Comment    string    `gorm:"column:comment;type:text" json:"comment"`
	Score      *string   `gorm:"column:score;size:2" json:"score,omitempty"`
	CreateAt   time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt   time.Time `gorm:"column:update_at" json:"update_at"`

	Interval *Interval `gorm:"foreignKey:IntervalID" json:"interval,omitempty"`
	Reviewer *User     `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Target   *User     `gorm:"foreignKey:TargetID" json:"target,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) IsEditable() bool {
	return r.Status == ReviewDraft || r.Status == ReviewRejected
}

func (r *Review) IsRejected() bool {
	return r.Status == ReviewRejected
}

func (r *Review) IsPending() bool {
	return r.Status == ReviewPending
}

// ScoreLabel returns the human label for the stored score.
func (r *Review) ScoreLabel() string {
	if r.Score == nil {
		return ""
	}
	return ScoreLabels[*r.Score]
}

// ValidScore reports membership in the allowed score set.
func ValidScore(score string) bool {
	_, ok := ScoreLabels[score]
	return ok
}

// ReviewerVisibleStatuses are the statuses in which a review has left the
// requested stage and the reviewer may see and work on it.
var ReviewerVisibleStatuses = []string{
	ReviewDraft, ReviewRejected, ReviewPending, ReviewPublished, ReviewHidden,
}

// RequireApprovalStatuses are the statuses a manager still has to act on.
var RequireApprovalStatuses = []string{ReviewRejected, ReviewPending}

// ApprovedStatuses are the terminal "manager signed off" statuses.
var ApprovedStatuses = []string{ReviewPublished, ReviewHidden}
