package services

import (
	"sort"
	"sync"

	"performance-review-api/models"
)

// memStore is an in-memory Store for service tests, mirroring the query
// semantics of the GORM implementation.
type memStore struct {
	mu          sync.Mutex
	users       map[uint]*models.User
	intervals   map[uint]*models.Interval
	selfReviews map[uint]*models.SelfReview
	reviews     map[uint]*models.Review
	goals       map[uint]*models.Goal
	auditLogs   []*models.AuditLog
	nextID      uint
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[uint]*models.User),
		intervals:   make(map[uint]*models.Interval),
		selfReviews: make(map[uint]*models.SelfReview),
		reviews:     make(map[uint]*models.Review),
		goals:       make(map[uint]*models.Goal),
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) addUser(u *models.User) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.UserID == 0 {
		u.UserID = m.id()
	}
	m.users[u.UserID] = u
	return u
}

func (m *memStore) addInterval(name, status string) *models.Interval {
	m.mu.Lock()
	defer m.mu.Unlock()
	interval := &models.Interval{IntervalID: m.id(), Name: name, Status: status}
	m.intervals[interval.IntervalID] = interval
	return interval
}

func (m *memStore) UserByID(id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *memStore) UserByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) ActiveUsers() ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var users []models.User
	for _, u := range m.users {
		if u.IsActive {
			users = append(users, *u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (m *memStore) ActiveSubordinates(managerID uint) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var users []models.User
	for _, u := range m.users {
		if u.IsActive && u.ManagerID != nil && *u.ManagerID == managerID {
			users = append(users, *u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (m *memStore) IntervalByName(name string) (*models.Interval, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, interval := range m.intervals {
		if interval.Name == name {
			return interval, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) IntervalsByStatus(statuses ...string) ([]models.Interval, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var intervals []models.Interval
	for _, interval := range m.intervals {
		for _, status := range statuses {
			if interval.Status == status {
				intervals = append(intervals, *interval)
				break
			}
		}
	}
	sort.Slice(intervals, func(i, j int) bool { return intervals[i].Name > intervals[j].Name })
	return intervals, nil
}

func (m *memStore) hydrateSelfReview(sr *models.SelfReview) *models.SelfReview {
	cp := *sr
	cp.User = m.users[sr.UserID]
	cp.Interval = m.intervals[sr.IntervalID]
	return &cp
}

func (m *memStore) SelfReviewByID(id uint) (*models.SelfReview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sr, ok := m.selfReviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m.hydrateSelfReview(sr), nil
}

func (m *memStore) SelfReviewFor(intervalID, userID uint) (*models.SelfReview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sr := range m.selfReviews {
		if sr.IntervalID == intervalID && sr.UserID == userID {
			return m.hydrateSelfReview(sr), nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) CreateSelfReview(sr *models.SelfReview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sr.SelfReviewID = m.id()
	cp := *sr
	m.selfReviews[sr.SelfReviewID] = &cp
	return nil
}

func (m *memStore) SaveSelfReview(sr *models.SelfReview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sr
	m.selfReviews[sr.SelfReviewID] = &cp
	return nil
}

func (m *memStore) hydrateReview(r *models.Review) *models.Review {
	cp := *r
	cp.Reviewer = m.users[r.ReviewerID]
	cp.Target = m.users[r.TargetID]
	cp.Interval = m.intervals[r.IntervalID]
	return &cp
}

func matchesStatus(status string, statuses []string) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func (m *memStore) ReviewByID(id uint) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m.hydrateReview(r), nil
}

func (m *memStore) reviewsWhere(pred func(*models.Review) bool) []models.Review {
	var out []models.Review
	var ids []uint
	for id := range m.reviews {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if pred(m.reviews[id]) {
			out = append(out, *m.hydrateReview(m.reviews[id]))
		}
	}
	return out
}

func (m *memStore) ReviewsByTarget(intervalID, targetID uint, statuses ...string) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reviewsWhere(func(r *models.Review) bool {
		return r.IntervalID == intervalID && r.TargetID == targetID && matchesStatus(r.Status, statuses)
	}), nil
}

func (m *memStore) ReviewsByReviewer(intervalID, reviewerID uint, statuses ...string) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reviewsWhere(func(r *models.Review) bool {
		return r.IntervalID == intervalID && r.ReviewerID == reviewerID && matchesStatus(r.Status, statuses)
	}), nil
}

func (m *memStore) ReviewsByTargetManager(intervalID, managerID uint, statuses ...string) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reviewsWhere(func(r *models.Review) bool {
		target, ok := m.users[r.TargetID]
		if !ok || target.ManagerID == nil || *target.ManagerID != managerID {
			return false
		}
		return r.IntervalID == intervalID && matchesStatus(r.Status, statuses)
	}), nil
}

func (m *memStore) publishedSelfReviewExists(intervalID, userID uint) bool {
	for _, sr := range m.selfReviews {
		if sr.IntervalID == intervalID && sr.UserID == userID && sr.Status == models.SelfReviewPublished {
			return true
		}
	}
	return false
}

func (m *memStore) ReviewsWaitingFrom(intervalID, reviewerID uint) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	waiting := []string{models.ReviewDraft, models.ReviewRejected, models.ReviewPending}
	return m.reviewsWhere(func(r *models.Review) bool {
		return r.IntervalID == intervalID && r.ReviewerID == reviewerID &&
			matchesStatus(r.Status, waiting) &&
			m.publishedSelfReviewExists(r.IntervalID, r.TargetID)
	}), nil
}

func (m *memStore) ReviewsAwaitingFeedback(intervalID uint) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	owed := []string{models.ReviewDraft, models.ReviewRejected}
	return m.reviewsWhere(func(r *models.Review) bool {
		return r.IntervalID == intervalID && matchesStatus(r.Status, owed) &&
			m.publishedSelfReviewExists(r.IntervalID, r.TargetID)
	}), nil
}

func (m *memStore) CreateReviews(reviews []*models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range reviews {
		r.ReviewID = m.id()
		cp := *r
		m.reviews[r.ReviewID] = &cp
	}
	return nil
}

func (m *memStore) GetOrCreateReview(intervalID, reviewerID, targetID uint, status string) (*models.Review, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.IntervalID == intervalID && r.ReviewerID == reviewerID && r.TargetID == targetID {
			return m.hydrateReview(r), false, nil
		}
	}
	r := &models.Review{
		ReviewID:   m.id(),
		IntervalID: intervalID,
		ReviewerID: reviewerID,
		TargetID:   targetID,
		Status:     status,
	}
	m.reviews[r.ReviewID] = r
	return m.hydrateReview(r), true, nil
}

func (m *memStore) SaveReview(r *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.reviews[r.ReviewID] = &cp
	return nil
}

func (m *memStore) DeleteRequestedReview(intervalID, targetID, reviewerID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.reviews {
		if r.IntervalID == intervalID && r.TargetID == targetID && r.ReviewerID == reviewerID &&
			r.Status == models.ReviewRequested {
			delete(m.reviews, id)
		}
	}
	return nil
}

func (m *memStore) hydrateGoal(g *models.Goal) *models.Goal {
	cp := *g
	cp.Target = m.users[g.TargetID]
	cp.Interval = m.intervals[g.IntervalID]
	return &cp
}

func (m *memStore) GoalByID(id uint) (*models.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.goals[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m.hydrateGoal(g), nil
}

func (m *memStore) GoalFor(intervalID, targetID uint) (*models.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.goals {
		if g.IntervalID == intervalID && g.TargetID == targetID {
			return m.hydrateGoal(g), nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) CreateGoal(g *models.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g.GoalID = m.id()
	cp := *g
	m.goals[g.GoalID] = &cp
	return nil
}

func (m *memStore) SaveGoal(g *models.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *g
	m.goals[g.GoalID] = &cp
	return nil
}

func (m *memStore) CreateAuditLog(entry *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auditLogs = append(m.auditLogs, entry)
	return nil
}

// fakeMailer records outgoing messages instead of dialing SMTP.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

type sentMail struct {
	To      []string
	Subject string
	Body    string
}

type failedSend struct{}

func (failedSend) Error() string { return "smtp unavailable" }

func (f *fakeMailer) Send(to []string, subject, html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return failedSend{}
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: html})
	return nil
}

func (f *fakeMailer) sentTo(addr string) []sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMail
	for _, m := range f.sent {
		for _, to := range m.To {
			if to == addr {
				out = append(out, m)
			}
		}
	}
	return out
}

// Fixture helpers.

func newUser(store *memStore, email string, manager *models.User) *models.User {
	u := &models.User{
		Email:        email,
		FirstName:    email,
		IsActive:     true,
		IsReviewable: true,
	}
	if manager != nil {
		id := manager.UserID
		u.ManagerID = &id
		u.Manager = manager
	}
	return store.addUser(u)
}

func newStack() (*memStore, *fakeMailer, Dispatcher) {
	store := newMemStore()
	mailer := &fakeMailer{}
	return store, mailer, NewNotifier(mailer, NewAuditLogger(store))
}
