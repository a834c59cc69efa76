package registration

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/PhumPatananiti/schooldesk/internal/model"
	"github.com/PhumPatananiti/schooldesk/internal/validate"
)

// DefaultTTL is the OTP lifetime when none is configured.
const DefaultTTL = 300 * time.Second

// ErrAttemptExpired rejects verification when no active, non-expired
// attempt exists. The caller must resend.
var ErrAttemptExpired = errors.New("otp_expired")

// Gateway is the slice of the auth client the flow drives.
type Gateway interface {
	SendOTP(ctx context.Context, phone string, role model.Role) (string, error)
	VerifyOTP(ctx context.Context, phone, code, password string, role model.Role) error
}

// Flow orchestrates the send-otp / verify-otp steps. At most one
// attempt is active; a resend replaces it. Verification never
// authenticates — the caller returns to the login entry point.
type Flow struct {
	gw  Gateway
	ttl time.Duration

	mu      sync.Mutex
	attempt *Attempt
}

func NewFlow(gw Gateway, ttl time.Duration) *Flow {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Flow{gw: gw, ttl: ttl}
}

// RequestOTP validates the form locally, then asks the server to
// issue a code and starts a fresh countdown. The returned code is
// empty outside the server's diagnostic mode.
func (f *Flow) RequestOTP(ctx context.Context, form validate.Registration) (*Attempt, string, error) {
	if err := validate.Struct(form); err != nil {
		return nil, "", err
	}
	role, _ := model.ParseRole(form.Role)

	otp, err := f.gw.SendOTP(ctx, form.Phone, role)
	if err != nil {
		return nil, "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attempt != nil {
		f.attempt.Stop()
	}
	f.attempt = newAttempt(form.Phone, role, f.ttl)
	return f.attempt, otp, nil
}

// VerifyOTP completes registration. Local validation and the expiry
// check run before any network call; on success the attempt is
// destroyed.
func (f *Flow) VerifyOTP(ctx context.Context, form validate.OTPVerification) error {
	f.mu.Lock()
	attempt := f.attempt
	f.mu.Unlock()

	if attempt == nil || attempt.Expired() {
		return ErrAttemptExpired
	}
	if err := validate.Struct(form); err != nil {
		return err
	}

	if err := f.gw.VerifyOTP(ctx, attempt.Phone, form.Code, form.NewPassword, attempt.Role); err != nil {
		// The attempt survives a rejection; the user may retry
		// until the countdown runs out.
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attempt == attempt {
		f.attempt = nil
	}
	attempt.Stop()
	return nil
}

// Cancel drops the active attempt, e.g. on navigating away from the
// verification step.
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attempt != nil {
		f.attempt.Stop()
		f.attempt = nil
	}
}

// Active returns the current attempt, or nil.
func (f *Flow) Active() *Attempt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempt
}
