package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/repository"
	"go.uber.org/zap"
)

var testLogger = zap.NewNop()

type memUsers struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*model.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[int64]*model.User{}}
}

func (m *memUsers) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.Email != nil {
		for _, u := range m.users {
			if u.Email != nil && strings.EqualFold(*u.Email, *user.Email) {
				return repository.ErrDuplicate
			}
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email != nil && strings.EqualFold(*u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.TelegramID != nil && *u.TelegramID == telegramID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Update(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

type memSubjects struct {
	nextID   int64
	subjects map[int64]*model.Subject
}

func newMemSubjects() *memSubjects {
	return &memSubjects{subjects: map[int64]*model.Subject{}}
}

func (m *memSubjects) Create(_ context.Context, s *model.Subject) error {
	m.nextID++
	s.ID = m.nextID
	cp := *s
	m.subjects[s.ID] = &cp
	return nil
}

func (m *memSubjects) GetByID(_ context.Context, userID, id int64) (*model.Subject, error) {
	if s, ok := m.subjects[id]; ok && s.UserID == userID {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (m *memSubjects) GetByUserID(_ context.Context, userID int64) ([]*model.Subject, error) {
	out := []*model.Subject{}
	for _, s := range m.subjects {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memSubjects) Update(_ context.Context, s *model.Subject) (bool, error) {
	old, ok := m.subjects[s.ID]
	if !ok || old.UserID != s.UserID {
		return false, nil
	}
	cp := *s
	m.subjects[s.ID] = &cp
	return true, nil
}

func (m *memSubjects) Delete(_ context.Context, userID, id int64) (bool, error) {
	s, ok := m.subjects[id]
	if !ok || s.UserID != userID {
		return false, nil
	}
	delete(m.subjects, id)
	return true, nil
}

type memTasks struct {
	nextID int64
	tasks  map[int64]*model.Task
}

func newMemTasks() *memTasks {
	return &memTasks{tasks: map[int64]*model.Task{}}
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (m *memTasks) Create(_ context.Context, t *model.Task) error {
	m.nextID++
	t.ID = m.nextID
	cp := *t
	m.tasks[t.ID] = &cp
	return nil
}

func (m *memTasks) GetByID(_ context.Context, userID, id int64) (*model.Task, error) {
	if t, ok := m.tasks[id]; ok && t.UserID == userID {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (m *memTasks) List(_ context.Context, userID int64, f repository.TaskFilter) ([]*model.Task, error) {
	out := []*model.Task{}
	for _, t := range m.tasks {
		if t.UserID != userID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.DueOn != nil && !sameDate(t.DueDate, *f.DueOn) {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memTasks) Update(_ context.Context, t *model.Task) (bool, error) {
	old, ok := m.tasks[t.ID]
	if !ok || old.UserID != t.UserID {
		return false, nil
	}
	cp := *t
	m.tasks[t.ID] = &cp
	return true, nil
}

func (m *memTasks) Delete(_ context.Context, userID, id int64) (bool, error) {
	t, ok := m.tasks[id]
	if !ok || t.UserID != userID {
		return false, nil
	}
	delete(m.tasks, id)
	return true, nil
}

func (m *memTasks) MarkOverdue(_ context.Context, day time.Time) (int64, error) {
	var n int64
	dy, dm, dd := day.Date()
	cutoff := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	for _, t := range m.tasks {
		ty, tm, td := t.DueDate.Date()
		due := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
		if t.Status == model.TaskStatusActive && !t.Completed && due.Before(cutoff) {
			t.Status = model.TaskStatusOverdue
			n++
		}
	}
	return n, nil
}

func (m *memTasks) CountByStatus(_ context.Context, userID int64) (map[model.TaskStatus]int, error) {
	counts := map[model.TaskStatus]int{}
	for _, t := range m.tasks {
		if t.UserID == userID {
			counts[t.Status]++
		}
	}
	return counts, nil
}

type memTimetable struct {
	nextID  int64
	entries []*model.TimetableEntry
}

func (m *memTimetable) Create(_ context.Context, e *model.TimetableEntry) error {
	m.nextID++
	e.ID = m.nextID
	cp := *e
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *memTimetable) GetByUserID(_ context.Context, userID int64) ([]*model.TimetableEntry, error) {
	out := []*model.TimetableEntry{}
	for _, e := range m.entries {
		if e.UserID == userID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memTimetable) GetByWeekday(_ context.Context, userID int64, wd time.Weekday) ([]*model.TimetableEntry, error) {
	out := []*model.TimetableEntry{}
	for _, e := range m.entries {
		if e.UserID == userID && e.Weekday == wd {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memTimetable) ReplaceWeek(_ context.Context, userID int64, entries []*model.TimetableEntry) error {
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.UserID != userID {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	for _, e := range entries {
		e.UserID = userID
		m.nextID++
		e.ID = m.nextID
		cp := *e
		m.entries = append(m.entries, &cp)
	}
	return nil
}

func (m *memTimetable) Delete(_ context.Context, userID, id int64) (bool, error) {
	for i, e := range m.entries {
		if e.ID == id && e.UserID == userID {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type memNotifications struct {
	items []*model.Notification
}

func (m *memNotifications) Create(_ context.Context, n *model.Notification) error {
	n.CreatedAt = time.Now()
	cp := *n
	m.items = append(m.items, &cp)
	return nil
}

func (m *memNotifications) GetByUserID(_ context.Context, userID int64, limit int) ([]*model.Notification, error) {
	out := []*model.Notification{}
	for i := len(m.items) - 1; i >= 0 && len(out) < limit; i-- {
		if m.items[i].UserID == userID {
			out = append(out, m.items[i])
		}
	}
	return out, nil
}

type stubIssuer struct{}

func (stubIssuer) Issue(userID int64) (string, error) {
	return fmt.Sprintf("token-%d", userID), nil
}

func strPtr(s string) *string { return &s }
