package httpapi

import (
	"net/http"
	"strconv"
)

// handleCommentsLive стримит новые комментарии фильма по websocket.
// Клиент подключается к /api/comments/live?movie={id} и получает
// каждый созданный комментарий отдельным JSON-сообщением.
func (s *Server) handleCommentsLive(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.Atoi(r.URL.Query().Get("movie"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Movie id is required")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам пишет ответ при ошибке
		return
	}
	defer conn.Close()

	ch, cancel := s.observer.Subscribe(movieID)
	defer cancel()

	// Читающая горутина нужна только чтобы заметить закрытие соединения
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case comment := <-ch:
			if err := conn.WriteJSON(comment); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
