package services

import (
	"errors"

	"gorm.io/gorm"

	"performance-review-api/models"
)

// Store is the persistence collaborator the core works against. The GORM
// implementation below is the production one; tests use an in-memory fake.
type Store interface {
	// Users
	UserByID(id uint) (*models.User, error)
	UserByEmail(email string) (*models.User, error)
	ActiveUsers() ([]models.User, error)
	ActiveSubordinates(managerID uint) ([]models.User, error)

	// Intervals, ordered by name descending (latest first)
	IntervalByName(name string) (*models.Interval, error)
	IntervalsByStatus(statuses ...string) ([]models.Interval, error)

	// Self-reviews
	SelfReviewByID(id uint) (*models.SelfReview, error)
	SelfReviewFor(intervalID, userID uint) (*models.SelfReview, error)
	CreateSelfReview(sr *models.SelfReview) error
	SaveSelfReview(sr *models.SelfReview) error

	// Peer reviews
	ReviewByID(id uint) (*models.Review, error)
	ReviewsByTarget(intervalID, targetID uint, statuses ...string) ([]models.Review, error)
	ReviewsByReviewer(intervalID, reviewerID uint, statuses ...string) ([]models.Review, error)
	ReviewsByTargetManager(intervalID, managerID uint, statuses ...string) ([]models.Review, error)
	ReviewsWaitingFrom(intervalID, reviewerID uint) ([]models.Review, error)
	ReviewsAwaitingFeedback(intervalID uint) ([]models.Review, error)
	CreateReviews(reviews []*models.Review) error
	GetOrCreateReview(intervalID, reviewerID, targetID uint, status string) (*models.Review, bool, error)
	SaveReview(r *models.Review) error
	DeleteRequestedReview(intervalID, targetID, reviewerID uint) error

	// Goals
	GoalByID(id uint) (*models.Goal, error)
	GoalFor(intervalID, targetID uint) (*models.Goal, error)
	CreateGoal(g *models.Goal) error
	SaveGoal(g *models.Goal) error

	// Audit trail
	CreateAuditLog(entry *models.AuditLog) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore wraps a GORM connection in the Store interface.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *gormStore) UserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Manager").Preload("Department").
		Where("user_id = ? AND delete_at IS NULL", id).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *gormStore) UserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Manager").Preload("Department").
		Where("email = ? AND delete_at IS NULL", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *gormStore) ActiveUsers() ([]models.User, error) {
	var users []models.User
	err := s.db.Preload("Manager").Preload("Department").
		Where("is_active = ? AND delete_at IS NULL", true).
		Order("last_name, first_name, email").
		Find(&users).Error
	return users, err
}

func (s *gormStore) ActiveSubordinates(managerID uint) ([]models.User, error) {
	var users []models.User
	err := s.db.Where("manager_id = ? AND is_active = ? AND delete_at IS NULL", managerID, true).
		Order("last_name, first_name, email").
		Find(&users).Error
	return users, err
}

func (s *gormStore) IntervalByName(name string) (*models.Interval, error) {
	var interval models.Interval
	if err := s.db.Where("name = ?", name).First(&interval).Error; err != nil {
		return nil, notFound(err)
	}
	return &interval, nil
}

func (s *gormStore) IntervalsByStatus(statuses ...string) ([]models.Interval, error) {
	var intervals []models.Interval
	err := s.db.Where("status IN ?", statuses).Order("name DESC").Find(&intervals).Error
	return intervals, err
}

func (s *gormStore) SelfReviewByID(id uint) (*models.SelfReview, error) {
	var sr models.SelfReview
	if err := s.db.Preload("User").Preload("User.Manager").Preload("Interval").
		Where("self_review_id = ?", id).First(&sr).Error; err != nil {
		return nil, notFound(err)
	}
	return &sr, nil
}

func (s *gormStore) SelfReviewFor(intervalID, userID uint) (*models.SelfReview, error) {
	var sr models.SelfReview
	if err := s.db.Preload("User").Preload("User.Manager").Preload("Interval").
		Where("interval_id = ? AND user_id = ?", intervalID, userID).
		First(&sr).Error; err != nil {
		return nil, notFound(err)
	}
	return &sr, nil
}

func (s *gormStore) CreateSelfReview(sr *models.SelfReview) error {
	return s.db.Create(sr).Error
}

func (s *gormStore) SaveSelfReview(sr *models.SelfReview) error {
	return s.db.Save(sr).Error
}

func (s *gormStore) reviewQuery() *gorm.DB {
	return s.db.Preload("Reviewer").Preload("Target").Preload("Target.Manager").Preload("Interval")
}

func (s *gormStore) ReviewByID(id uint) (*models.Review, error) {
	var r models.Review
	if err := s.reviewQuery().Where("review_id = ?", id).First(&r).Error; err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

func (s *gormStore) ReviewsByTarget(intervalID, targetID uint, statuses ...string) ([]models.Review, error) {
	var reviews []models.Review
	q := s.reviewQuery().Where("interval_id = ? AND target_id = ?", intervalID, targetID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	err := q.Find(&reviews).Error
	return reviews, err
}

func (s *gormStore) ReviewsByReviewer(intervalID, reviewerID uint, statuses ...string) ([]models.Review, error) {
	var reviews []models.Review
	q := s.reviewQuery().Where("interval_id = ? AND reviewer_id = ?", intervalID, reviewerID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	err := q.Find(&reviews).Error
	return reviews, err
}

func (s *gormStore) ReviewsByTargetManager(intervalID, managerID uint, statuses ...string) ([]models.Review, error) {
	var reviews []models.Review
	q := s.reviewQuery().
		Joins("JOIN users AS targets ON targets.user_id = reviews.target_id").
		Where("targets.manager_id = ?", managerID).
		Where("reviews.interval_id = ?", intervalID)
	if len(statuses) > 0 {
		q = q.Where("reviews.status IN ?", statuses)
	}
	err := q.Order("reviews.target_id").Find(&reviews).Error
	return reviews, err
}

func (s *gormStore) ReviewsWaitingFrom(intervalID, reviewerID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.reviewQuery().
		Joins("JOIN self_reviews AS sr ON sr.user_id = reviews.target_id AND sr.interval_id = reviews.interval_id").
		Where("sr.status = ?", models.SelfReviewPublished).
		Where("reviews.interval_id = ? AND reviews.reviewer_id = ?", intervalID, reviewerID).
		Where("reviews.status IN ?", []string{models.ReviewDraft, models.ReviewRejected, models.ReviewPending}).
		Find(&reviews).Error
	return reviews, err
}

func (s *gormStore) ReviewsAwaitingFeedback(intervalID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.reviewQuery().
		Joins("JOIN self_reviews AS sr ON sr.user_id = reviews.target_id AND sr.interval_id = reviews.interval_id").
		Where("sr.status = ?", models.SelfReviewPublished).
		Where("reviews.interval_id = ?", intervalID).
		Where("reviews.status IN ?", []string{models.ReviewDraft, models.ReviewRejected}).
		Find(&reviews).Error
	return reviews, err
}

func (s *gormStore) CreateReviews(reviews []*models.Review) error {
	if len(reviews) == 0 {
		return nil
	}
	return s.db.Create(reviews).Error
}

func (s *gormStore) GetOrCreateReview(intervalID, reviewerID, targetID uint, status string) (*models.Review, bool, error) {
	var r models.Review
	err := s.reviewQuery().
		Where("interval_id = ? AND reviewer_id = ? AND target_id = ?", intervalID, reviewerID, targetID).
		First(&r).Error
	if err == nil {
		return &r, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	r = models.Review{
		IntervalID: intervalID,
		ReviewerID: reviewerID,
		TargetID:   targetID,
		Status:     status,
	}
	if err := s.db.Create(&r).Error; err != nil {
		return nil, false, err
	}
	return &r, true, nil
}

func (s *gormStore) SaveReview(r *models.Review) error {
	return s.db.Save(r).Error
}

func (s *gormStore) DeleteRequestedReview(intervalID, targetID, reviewerID uint) error {
	return s.db.Where("interval_id = ? AND target_id = ? AND reviewer_id = ? AND status = ?",
		intervalID, targetID, reviewerID, models.ReviewRequested).
		Delete(&models.Review{}).Error
}

func (s *gormStore) GoalByID(id uint) (*models.Goal, error) {
	var g models.Goal
	if err := s.db.Preload("Target").Preload("Target.Manager").Preload("Interval").
		Where("goal_id = ?", id).First(&g).Error; err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

func (s *gormStore) GoalFor(intervalID, targetID uint) (*models.Goal, error) {
	var g models.Goal
	if err := s.db.Preload("Target").Preload("Target.Manager").Preload("Interval").
		Where("interval_id = ? AND target_id = ?", intervalID, targetID).
		First(&g).Error; err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

func (s *gormStore) CreateGoal(g *models.Goal) error {
	return s.db.Create(g).Error
}

func (s *gormStore) SaveGoal(g *models.Goal) error {
	return s.db.Save(g).Error
}

func (s *gormStore) CreateAuditLog(entry *models.AuditLog) error {
	return s.db.Create(entry).Error
}
