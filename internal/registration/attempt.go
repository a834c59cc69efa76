package registration

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PhumPatananiti/schooldesk/internal/model"
)

// tickInterval is one countdown step. Overridden in tests.
var tickInterval = time.Second

// Attempt is one transient OTP registration attempt. It owns its
// countdown: the ticker goroutine stops with the attempt, so no tick
// can fire against a discarded attempt.
type Attempt struct {
	ID       string
	Phone    string
	Role     model.Role
	IssuedAt time.Time

	mu        sync.Mutex
	remaining int

	stopOnce sync.Once
	done     chan struct{}
}

func newAttempt(phone string, role model.Role, ttl time.Duration) *Attempt {
	a := &Attempt{
		ID:        uuid.NewString(),
		Phone:     phone,
		Role:      role,
		IssuedAt:  time.Now().UTC(),
		remaining: int(ttl / time.Second),
		done:      make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Attempt) run() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-a.done:
			return
		case <-ticker.C:
			a.mu.Lock()
			if a.remaining > 0 {
				a.remaining--
			}
			expired := a.remaining == 0
			a.mu.Unlock()
			if expired {
				return
			}
		}
	}
}

// Remaining is the seconds left before the code expires.
func (a *Attempt) Remaining() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.remaining
}

func (a *Attempt) Expired() bool {
	return a.Remaining() <= 0
}

// Stop cancels the countdown. Idempotent; called on verification
// success, resend, or navigation away.
func (a *Attempt) Stop() {
	a.stopOnce.Do(func() { close(a.done) })
}
