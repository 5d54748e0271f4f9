package session

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-TravelBooking/internal/service/bookingstate"
	"github.com/m04kA/SMC-TravelBooking/internal/service/history"
)

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Session состояние одного пользователя: текущее бронирование и история
type Session struct {
	UserID  int64
	Machine *bookingstate.Machine
	Ledger  *history.Ledger

	mu       sync.Mutex
	hydrated bool
	lastSeen time.Time
}

// Hydrate выполняет load один раз за жизнь сессии.
// Если load вернул ошибку, следующий вызов попробует снова.
// force перезагружает историю даже для уже загруженной сессии.
func (s *Session) Hydrate(ctx context.Context, force bool, load func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hydrated && !force {
		return nil
	}
	if err := load(ctx); err != nil {
		return err
	}
	s.hydrated = true
	return nil
}

// Hydrated возвращает true, если история уже загружена из БД
func (s *Session) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.hydrated
}

// Manager реестр сессий пользователей
type Manager struct {
	mu           sync.Mutex
	sessions     map[int64]*Session
	idleTTL      time.Duration
	timeProvider TimeProvider
}

// NewManager создает реестр. Сессии без обращений дольше idleTTL удаляются при Sweep (0 - никогда).
func NewManager(idleTTL time.Duration) *Manager {
	return NewManagerWithTimeProvider(idleTTL, &RealTimeProvider{})
}

// NewManagerWithTimeProvider создает реестр с заданным провайдером времени
func NewManagerWithTimeProvider(idleTTL time.Duration, tp TimeProvider) *Manager {
	return &Manager{
		sessions:     make(map[int64]*Session),
		idleTTL:      idleTTL,
		timeProvider: tp,
	}
}

// Get возвращает сессию пользователя, создавая ее при первом обращении
func (m *Manager) Get(userID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.timeProvider.Now()
	s, ok := m.sessions[userID]
	if !ok {
		s = &Session{
			UserID:  userID,
			Machine: bookingstate.NewMachine(),
			Ledger:  history.NewLedger(),
		}
		m.sessions[userID] = s
	}
	s.lastSeen = now
	return s
}

// Len возвращает количество сессий
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}

// Sweep удаляет простаивающие сессии. Сессии с отправкой в процессе не удаляются.
func (m *Manager) Sweep() int {
	if m.idleTTL <= 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	deadline := m.timeProvider.Now().Add(-m.idleTTL)
	removed := 0
	for userID, s := range m.sessions {
		if !s.lastSeen.Before(deadline) {
			continue
		}
		if current := s.Machine.Current(); current != nil && current.IsProcessing() {
			continue
		}
		delete(m.sessions, userID)
		removed++
	}
	return removed
}

// RunJanitor периодически вызывает Sweep до отмены ctx
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 || m.idleTTL <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
