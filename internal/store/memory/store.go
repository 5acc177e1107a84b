// Package memory provides an in-memory subject store for tests and dry runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"partnerscout/internal/scout"
)

// Store implements scout.SubjectStore with a mutex-guarded map.
type Store struct {
	mu       sync.Mutex
	subjects map[string]scout.Subject
	order    map[string]int
	nextSeq  int
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		subjects: make(map[string]scout.Subject),
		order:    make(map[string]int),
	}
}

// Insert creates a new subject. Duplicate IDs are rejected.
func (s *Store) Insert(_ context.Context, sub scout.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.subjects[sub.ID]; exists {
		return fmt.Errorf("subject %s already exists (23505)", sub.ID)
	}
	for _, existing := range s.subjects {
		if existing.Website == sub.Website {
			return fmt.Errorf("website %s already exists (23505)", sub.Website)
		}
	}
	s.subjects[sub.ID] = sub
	s.order[sub.ID] = s.nextSeq
	s.nextSeq++
	return nil
}

// ListPending returns up to limit Pending subjects in insertion order.
func (s *Store) ListPending(_ context.Context, limit int) ([]scout.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []scout.Subject
	for _, sub := range s.subjects {
		if sub.Status == scout.StatusPending {
			pending = append(pending, sub)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return s.order[pending[i].ID] < s.order[pending[j].ID]
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

// Get returns the full record for one subject.
func (s *Store) Get(_ context.Context, id string) (scout.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subjects[id]
	if !ok {
		return scout.Subject{}, fmt.Errorf("subject %s not found", id)
	}
	return sub, nil
}

// CountPending reports how many subjects still await discovery.
func (s *Store) CountPending(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, sub := range s.subjects {
		if sub.Status == scout.StatusPending {
			count++
		}
	}
	return count, nil
}

// Update applies a partial update to one subject.
func (s *Store) Update(_ context.Context, id string, upd scout.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subjects[id]
	if !ok {
		return fmt.Errorf("subject %s not found", id)
	}
	applyUpdate(&sub, upd)
	s.subjects[id] = sub
	return nil
}

func applyUpdate(sub *scout.Subject, upd scout.Update) {
	if upd.Status != nil {
		sub.Status = *upd.Status
	}
	if upd.Outreach != nil {
		sub.Outreach = *upd.Outreach
	}
	if upd.Notes != nil {
		sub.Notes = *upd.Notes
	}
	if upd.AffiliateURL != nil {
		sub.Facts.AffiliateURL = *upd.AffiliateURL
	}
	if upd.Commission != nil {
		sub.Facts.Commission = *upd.Commission
	}
	if upd.CookieDuration != nil {
		sub.Facts.CookieDuration = *upd.CookieDuration
	}
	if upd.PayoutType != nil {
		sub.Facts.PayoutType = *upd.PayoutType
	}
	if upd.ContactEmail != nil {
		sub.Facts.ContactEmail = *upd.ContactEmail
	}
	if upd.ContactPageURL != nil {
		sub.Facts.ContactPageURL = *upd.ContactPageURL
	}
	if upd.FaviconURL != nil {
		sub.Facts.FaviconURL = *upd.FaviconURL
	}
	if upd.LogoURL != nil {
		sub.Facts.LogoURL = *upd.LogoURL
	}
	if upd.ImageURL != nil {
		sub.Facts.ImageURL = *upd.ImageURL
	}
	if upd.SocialLinks != nil {
		sub.Facts.SocialLinks = append([]scout.SocialLink(nil), upd.SocialLinks...)
	}
	if upd.Tags != nil {
		sub.Facts.Tags = append([]string(nil), upd.Tags...)
	}
	if upd.UseCases != nil {
		sub.Facts.UseCases = append([]string(nil), upd.UseCases...)
	}
	if upd.Features != nil {
		sub.Facts.Features = append([]string(nil), upd.Features...)
	}
}

// ListAll returns every subject in insertion order.
func (s *Store) ListAll(_ context.Context) ([]scout.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]scout.Subject, 0, len(s.subjects))
	for _, sub := range s.subjects {
		all = append(all, sub)
	}
	sort.Slice(all, func(i, j int) bool {
		return s.order[all[i].ID] < s.order[all[j].ID]
	})
	return all, nil
}

// Delete removes one subject.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subjects[id]; !ok {
		return fmt.Errorf("subject %s not found", id)
	}
	delete(s.subjects, id)
	delete(s.order, id)
	return nil
}

// IsUniqueViolation reports whether err came from inserting a duplicate ID.
func (s *Store) IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}

// UpdateWhereStatus applies the same partial update to every subject with
// the given status and returns how many changed.
func (s *Store) UpdateWhereStatus(_ context.Context, status scout.Status, upd scout.Update) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for id, sub := range s.subjects {
		if sub.Status != status {
			continue
		}
		applyUpdate(&sub, upd)
		s.subjects[id] = sub
		count++
	}
	return count, nil
}
