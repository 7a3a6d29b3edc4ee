package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/study_planner/internal/schedule"
)

type liveSession struct {
	userID    int64
	refresher *schedule.Refresher
}

// LiveSessions живые сообщения с расписанием, не больше одного на чат
type LiveSessions struct {
	interval time.Duration
	clock    schedule.Clock

	mu       sync.Mutex
	sessions map[int64]*liveSession // chatID -> сессия
}

func NewLiveSessions(interval time.Duration, clock schedule.Clock) *LiveSessions {
	return &LiveSessions{
		interval: interval,
		clock:    clock,
		sessions: make(map[int64]*liveSession),
	}
}

// Start запускает обновление для чата, предыдущая сессия чата останавливается.
// Refresher публикуется уже запущенным: тот, кто его заменит, всегда сможет его остановить.
func (l *LiveSessions) Start(ctx context.Context, chatID, userID int64, evaluate schedule.EvaluateFunc) {
	refresher := schedule.NewRefresher(l.interval, l.clock, evaluate)
	refresher.Start(ctx)

	l.mu.Lock()
	previous := l.sessions[chatID]
	l.sessions[chatID] = &liveSession{userID: userID, refresher: refresher}
	l.mu.Unlock()

	if previous != nil {
		previous.refresher.Stop()
	}
}

// Stop останавливает обновление в чате. false если сессии не было.
func (l *LiveSessions) Stop(chatID int64) bool {
	l.mu.Lock()
	session, ok := l.sessions[chatID]
	delete(l.sessions, chatID)
	l.mu.Unlock()

	if !ok {
		return false
	}
	session.refresher.Stop()
	return true
}

// NotifyUser пересчитывает все живые сообщения пользователя вне очереди
func (l *LiveSessions) NotifyUser(userID int64) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	notified := 0
	for _, session := range l.sessions {
		if session.userID == userID {
			session.refresher.Notify()
			notified++
		}
	}
	return notified
}

// StopAll останавливает все сессии, вызывается при остановке бота
func (l *LiveSessions) StopAll() {
	l.mu.Lock()
	sessions := l.sessions
	l.sessions = make(map[int64]*liveSession)
	l.mu.Unlock()

	for _, session := range sessions {
		session.refresher.Stop()
	}
}

// Count количество активных сессий
func (l *LiveSessions) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sessions)
}
