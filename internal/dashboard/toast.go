package dashboard

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ToastKind selects a notification's accent.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastFailure
)

// Toast is a transient notification.
type Toast struct {
	ID    int
	Kind  ToastKind
	Title string
	Body  string
}

// maxToasts is how many notifications are stacked at once; older ones are
// dropped early.
const maxToasts = 3

// DefaultToastTTL is how long a notification stays on screen.
const DefaultToastTTL = 3 * time.Second

type toastQueue struct {
	items  []Toast
	nextID int
	ttl    time.Duration
}

func newToastQueue(ttl time.Duration) toastQueue {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	return toastQueue{ttl: ttl}
}

// push adds a toast and returns the timer that expires it.
func (q *toastQueue) push(kind ToastKind, title, body string) tea.Cmd {
	q.nextID++
	id := q.nextID
	q.items = append(q.items, Toast{ID: id, Kind: kind, Title: title, Body: body})
	if len(q.items) > maxToasts {
		q.items = q.items[len(q.items)-maxToasts:]
	}
	return tea.Tick(q.ttl, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (q *toastQueue) expire(id int) {
	for i, t := range q.items {
		if t.ID == id {
			q.items = append(q.items[:i:i], q.items[i+1:]...)
			return
		}
	}
}

// Items returns the visible toasts, oldest first.
func (q toastQueue) Items() []Toast {
	return append([]Toast(nil), q.items...)
}
