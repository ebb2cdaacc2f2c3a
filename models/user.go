package models

import (
	"strings"
	"time"
)

type User struct {
	UserID       uint       `gorm:"primaryKey;column:user_id" json:"user_id"`
	Email        string     `gorm:"column:email;unique" json:"email"`
	FirstName    string     `gorm:"column:first_name" json:"first_name"`
	LastName     string     `gorm:"column:last_name" json:"last_name"`
	Password     string     `gorm:"column:password" json:"-"`
	JobTitle     *string    `gorm:"column:job_title" json:"job_title,omitempty"`
	ManagerID    *uint      `gorm:"column:manager_id" json:"manager_id,omitempty"`
	DepartmentID *uint      `gorm:"column:department_id" json:"department_id,omitempty"`
	IsActive     bool       `gorm:"column:is_active" json:"is_active"`
	IsReviewable bool       `gorm:"column:is_reviewable" json:"is_reviewable"`
	IsStaff      bool       `gorm:"column:is_staff" json:"is_staff"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Manager    *User       `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

type Department struct {
	DepartmentID uint      `gorm:"primaryKey;column:department_id" json:"department_id"`
	Name         string    `gorm:"column:name" json:"name"`
	ParentID     *uint     `gorm:"column:parent_id" json:"parent_id,omitempty"`
	Weight       int       `gorm:"column:weight" json:"weight"`
	CreateAt     time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     time.Time `gorm:"column:update_at" json:"update_at"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Department) TableName() string {
	return "departments"
}

// IsBoss reports whether the user sits at the top of the org tree.
// Bosses have nobody to approve their self-reviews, so submissions
// auto-publish.
func (u *User) IsBoss() bool {
	return u.ManagerID == nil
}

// DisplayName falls back to email for system accounts with no name set.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.LastName + " " + u.FirstName)
	if name == "" {
		return u.Email
	}
	return name
}

// HRFriendlyName adds the job title, for the org tree printout.
func (u *User) HRFriendlyName() string {
	if u.JobTitle != nil && *u.JobTitle != "" {
		return u.DisplayName() + " (" + *u.JobTitle + ")"
	}
	return u.DisplayName()
}
