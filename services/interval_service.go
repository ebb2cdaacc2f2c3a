package services

import "performance-review-api/models"

// IntervalService answers "which review cycle are we in". Interval statuses
// are advanced by an administrator out of band; nothing here validates the
// progression. Steady state assumes at most one started interval, which the
// Current query relies on but does not enforce.
type IntervalService struct {
	store Store
}

func NewIntervalService(store Store) *IntervalService {
	return &IntervalService{store: store}
}

// Current returns the started interval, or ErrNoCurrentInterval. With more
// than one started, the latest by name wins.
func (s *IntervalService) Current() (*models.Interval, error) {
	intervals, err := s.store.IntervalsByStatus(models.IntervalStarted)
	if err != nil {
		return nil, err
	}
	if len(intervals) == 0 {
		return nil, ErrNoCurrentInterval
	}
	return &intervals[0], nil
}

// LatestActive returns the newest interval that has at least started.
func (s *IntervalService) LatestActive() (*models.Interval, error) {
	intervals, err := s.store.IntervalsByStatus(models.IntervalStarted, models.IntervalFinished)
	if err != nil {
		return nil, err
	}
	if len(intervals) == 0 {
		return nil, ErrNotFound
	}
	return &intervals[0], nil
}

// NextPending picks a notionally "next" interval. This is not real
// scheduling, just the first pending record that is not the one given.
func (s *IntervalService) NextPending(excluding *models.Interval) (*models.Interval, error) {
	intervals, err := s.store.IntervalsByStatus(models.IntervalPending)
	if err != nil {
		return nil, err
	}
	for i := range intervals {
		if excluding == nil || intervals[i].IntervalID != excluding.IntervalID {
			return &intervals[i], nil
		}
	}
	return nil, ErrNotFound
}

// ByName resolves an interval from its URL name.
func (s *IntervalService) ByName(name string) (*models.Interval, error) {
	return s.store.IntervalByName(name)
}
