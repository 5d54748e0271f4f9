package history

import (
	"sync"
	"time"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
)

// ConfirmationPatch частичное обновление записи истории.
// Применяются только заданные (не nil) поля.
type ConfirmationPatch struct {
	Status    *domain.BookingStatus
	UpdatedAt *time.Time
}

func (p ConfirmationPatch) apply(c domain.BookingConfirmation) domain.BookingConfirmation {
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.UpdatedAt != nil {
		c.UpdatedAt = *p.UpdatedAt
	}
	return c
}

// Ledger упорядоченная история завершенных бронирований, новые записи первыми.
// Записи не удаляются, меняется только статус.
type Ledger struct {
	mu      sync.RWMutex
	entries []domain.BookingConfirmation
}

// NewLedger создает пустую историю
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append вставляет подтверждение в начало истории.
// Дубликаты по ID не схлопываются.
func (l *Ledger) Append(c domain.BookingConfirmation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]domain.BookingConfirmation, 0, len(l.entries)+1)
	entries = append(entries, c.Clone())
	entries = append(entries, l.entries...)
	l.entries = entries
}

// ReplaceAll заменяет историю целиком (гидрация из хранилища); порядок сохраняется
func (l *Ledger) ReplaceAll(cs []domain.BookingConfirmation) {
	entries := make([]domain.BookingConfirmation, len(cs))
	for i, c := range cs {
		entries[i] = c.Clone()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = entries
}

// UpdateByID применяет патч ко всем записям с данным ID, не меняя порядок.
// Возвращает число затронутых записей.
func (l *Ledger) UpdateByID(id string, patch ConfirmationPatch) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	updated := 0
	for i := range l.entries {
		if l.entries[i].ID != id {
			continue
		}
		l.entries[i] = patch.apply(l.entries[i])
		updated++
	}
	return updated
}

// List возвращает копию истории
func (l *Ledger) List() []domain.BookingConfirmation {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.BookingConfirmation, len(l.entries))
	for i, c := range l.entries {
		out[i] = c.Clone()
	}
	return out
}

// Get возвращает первую (самую свежую) запись с данным ID
func (l *Ledger) Get(id string) (domain.BookingConfirmation, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, c := range l.entries {
		if c.ID == id {
			return c.Clone(), true
		}
	}
	return domain.BookingConfirmation{}, false
}

// Len количество записей
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.entries)
}
