package service

import (
	"sync"

	"github.com/google/uuid"

	"github.com/UkralStul/movie-discovery-service/internal/domain"
)

// Observer хранит каналы подписчиков на новые комментарии к фильмам.
type Observer struct {
	mu sync.RWMutex
	//          map[movieID] map[subscriberID] channel
	subs map[int]map[string]chan *domain.Comment
}

// NewObserver - конструктор для наблюдателя.
func NewObserver() *Observer {
	return &Observer{
		subs: make(map[int]map[string]chan *domain.Comment),
	}
}

// Subscribe регистрирует подписчика на фильм и возвращает канал
// вместе с функцией отписки. Отписка обязательна, иначе канал течет.
func (o *Observer) Subscribe(movieID int) (<-chan *domain.Comment, func()) {
	ch := make(chan *domain.Comment, 1)
	subID := uuid.NewString()

	o.mu.Lock()
	if o.subs[movieID] == nil {
		o.subs[movieID] = make(map[string]chan *domain.Comment)
	}
	o.subs[movieID][subID] = ch
	o.mu.Unlock()

	cancel := func() {
		o.mu.Lock()
		if movieSubs, ok := o.subs[movieID]; ok {
			delete(movieSubs, subID)
			if len(movieSubs) == 0 {
				delete(o.subs, movieID)
			}
		}
		o.mu.Unlock()
	}
	return ch, cancel
}

// Notify рассылает комментарий всем подписчикам его фильма.
// Отправка неблокирующая: медленный клиент пропускает событие.
func (o *Observer) Notify(comment *domain.Comment) {
	o.mu.RLock()
	channels := make([]chan *domain.Comment, 0, len(o.subs[comment.MovieID]))
	for _, ch := range o.subs[comment.MovieID] {
		channels = append(channels, ch)
	}
	o.mu.RUnlock()

	for _, ch := range channels {
		select {
		case ch <- comment:
		default:
			// Клиент не успевает читать, событие пропускается
		}
	}
}
