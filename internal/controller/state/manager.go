package state

import (
	"sync"
)

// Manager хранит шаг диалога и черновик задачи для каждого telegramID.
// Данные живут только в памяти процесса.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*session
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*session),
	}
}

// GetState текущий шаг диалога или StateNone
func (m *Manager) GetState(telegramID int64) UserState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if s, ok := m.sessions[telegramID]; ok {
		return s.state
	}
	return StateNone
}

// SetState переводит диалог на шаг state. StateNone завершает диалог вместе с черновиком.
func (m *Manager) SetState(telegramID int64, state UserState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if state == StateNone {
		delete(m.sessions, telegramID)
		return
	}
	m.session(telegramID).state = state
}

// Draft копия черновика задачи. ok=false, если диалога нет.
func (m *Manager) Draft(telegramID int64) (TaskDraft, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[telegramID]
	if !ok {
		return TaskDraft{}, false
	}
	return s.draft, true
}

// UpdateDraft меняет черновик под блокировкой и переводит диалог на шаг next
func (m *Manager) UpdateDraft(telegramID int64, next UserState, update func(*TaskDraft)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session(telegramID)
	update(&s.draft)
	s.state = next
}

// ClearState завершает диалог
func (m *Manager) ClearState(telegramID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, telegramID)
}

func (m *Manager) session(telegramID int64) *session {
	s, ok := m.sessions[telegramID]
	if !ok {
		s = &session{}
		m.sessions[telegramID] = s
	}
	return s
}
