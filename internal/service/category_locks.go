package service

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// categoryLocks сериализует изменения внутри одной пары (владелец, категория).
// Записи удаляются из карты, когда на них не осталось ссылок.
type categoryLocks struct {
	mu    sync.Mutex
	locks map[string]*categoryLock
}

type categoryLock struct {
	mu   sync.Mutex
	refs int
}

func newCategoryLocks() *categoryLocks {
	return &categoryLocks{locks: make(map[string]*categoryLock)}
}

// Lock захватывает блокировки всех переданных категорий владельца и возвращает функцию освобождения.
// Ключи захватываются в отсортированном порядке, поэтому встречные переносы между категориями не блокируют друг друга навсегда.
func (l *categoryLocks) Lock(ownerID uuid.UUID, categories ...string) func() {
	keys := lockKeys(ownerID, categories)

	held := make([]*categoryLock, 0, len(keys))
	for _, key := range keys {
		l.mu.Lock()
		entry, ok := l.locks[key]
		if !ok {
			entry = &categoryLock{}
			l.locks[key] = entry
		}
		entry.refs++
		l.mu.Unlock()

		entry.mu.Lock()
		held = append(held, entry)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(held) - 1; i >= 0; i-- {
				held[i].mu.Unlock()

				l.mu.Lock()
				held[i].refs--
				if held[i].refs == 0 {
					delete(l.locks, keys[i])
				}
				l.mu.Unlock()
			}
		})
	}
}

// size возвращает число активных записей.
func (l *categoryLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func lockKeys(ownerID uuid.UUID, categories []string) []string {
	seen := make(map[string]struct{}, len(categories))
	keys := make([]string, 0, len(categories))
	for _, category := range categories {
		key := ownerID.String() + "|" + category
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
