package registration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/PhumPatananiti/schooldesk/internal/gateway"
	"github.com/PhumPatananiti/schooldesk/internal/model"
	"github.com/PhumPatananiti/schooldesk/internal/validate"
)

type fakeGateway struct {
	sendErr   error
	verifyErr error
	otp       string

	sendCalls   int
	verifyCalls int
	lastPhone   string
	lastRole    model.Role
	lastCode    string
}

func (g *fakeGateway) SendOTP(_ context.Context, phone string, role model.Role) (string, error) {
	g.sendCalls++
	g.lastPhone = phone
	g.lastRole = role
	return g.otp, g.sendErr
}

func (g *fakeGateway) VerifyOTP(_ context.Context, phone, code, _ string, role model.Role) error {
	g.verifyCalls++
	g.lastPhone = phone
	g.lastRole = role
	g.lastCode = code
	return g.verifyErr
}

func TestRequestOTPStartsAttempt(t *testing.T) {
	gw := &fakeGateway{otp: "424242"}
	flow := NewFlow(gw, 0)

	attempt, otp, err := flow.RequestOTP(context.Background(), validate.Registration{
		Phone: "0899999999", Role: "student",
	})
	require.NoError(t, err)
	require.Equal(t, "424242", otp)
	require.NotNil(t, attempt)
	require.Equal(t, "0899999999", attempt.Phone)
	require.Equal(t, model.RoleStudent, attempt.Role)
	require.Equal(t, 300, attempt.Remaining())
	require.Same(t, attempt, flow.Active())
}

func TestRequestOTPBadPhoneSkipsNetwork(t *testing.T) {
	gw := &fakeGateway{}
	flow := NewFlow(gw, 0)

	_, _, err := flow.RequestOTP(context.Background(), validate.Registration{
		Phone: "12345", Role: "student",
	})
	verr := &validate.Error{}
	require.ErrorAs(t, err, &verr)
	require.Zero(t, gw.sendCalls)
	require.Nil(t, flow.Active())
}

func TestRequestOTPRemoteRejection(t *testing.T) {
	gw := &fakeGateway{sendErr: &gateway.RemoteError{Message: "phone not registered"}}
	flow := NewFlow(gw, 0)

	_, _, err := flow.RequestOTP(context.Background(), validate.Registration{
		Phone: "0899999999", Role: "teacher",
	})
	rerr := &gateway.RemoteError{}
	require.ErrorAs(t, err, &rerr)
	require.Nil(t, flow.Active())
}

func TestVerifyOTPWithoutAttempt(t *testing.T) {
	flow := NewFlow(&fakeGateway{}, 0)
	err := flow.VerifyOTP(context.Background(), validate.OTPVerification{
		Code: "123456", NewPassword: "abc123", ConfirmPassword: "abc123",
	})
	require.ErrorIs(t, err, ErrAttemptExpired)
}

func TestVerifyOTPDestroysAttemptOnSuccess(t *testing.T) {
	gw := &fakeGateway{}
	flow := NewFlow(gw, 0)

	_, _, err := flow.RequestOTP(context.Background(), validate.Registration{
		Phone: "0899999999", Role: "student",
	})
	require.NoError(t, err)

	err = flow.VerifyOTP(context.Background(), validate.OTPVerification{
		Code: "123456", NewPassword: "abc123", ConfirmPassword: "abc123",
	})
	require.NoError(t, err)
	require.Equal(t, "123456", gw.lastCode)
	require.Nil(t, flow.Active())
}

func TestVerifyOTPKeepsAttemptOnRejection(t *testing.T) {
	gw := &fakeGateway{verifyErr: &gateway.RemoteError{Message: "wrong code"}}
	flow := NewFlow(gw, 0)

	_, _, err := flow.RequestOTP(context.Background(), validate.Registration{
		Phone: "0899999999", Role: "student",
	})
	require.NoError(t, err)

	err = flow.VerifyOTP(context.Background(), validate.OTPVerification{
		Code: "111111", NewPassword: "abc123", ConfirmPassword: "abc123",
	})
	require.Error(t, err)
	require.NotNil(t, flow.Active())
}

func TestCountdownExpiryDisablesVerification(t *testing.T) {
	old := tickInterval
	tickInterval = 5 * time.Millisecond
	defer func() { tickInterval = old }()

	gw := &fakeGateway{}
	flow := NewFlow(gw, 2*time.Second) // two ticks at the test interval

	attempt, _, err := flow.RequestOTP(context.Background(), validate.Registration{
		Phone: "0899999999", Role: "student",
	})
	require.NoError(t, err)

	require.Eventually(t, attempt.Expired, time.Second, time.Millisecond)

	err = flow.VerifyOTP(context.Background(), validate.OTPVerification{
		Code: "123456", NewPassword: "abc123", ConfirmPassword: "abc123",
	})
	require.ErrorIs(t, err, ErrAttemptExpired)
	require.Zero(t, gw.verifyCalls)

	// A resend restarts the flow with a fresh attempt.
	fresh, _, err := flow.RequestOTP(context.Background(), validate.Registration{
		Phone: "0899999999", Role: "student",
	})
	require.NoError(t, err)
	require.NotEqual(t, attempt.ID, fresh.ID)
	require.False(t, fresh.Expired())
}

func TestResendReplacesAttempt(t *testing.T) {
	flow := NewFlow(&fakeGateway{}, 0)
	ctx := context.Background()

	first, _, err := flow.RequestOTP(ctx, validate.Registration{Phone: "0899999999", Role: "student"})
	require.NoError(t, err)
	second, _, err := flow.RequestOTP(ctx, validate.Registration{Phone: "0899999999", Role: "student"})
	require.NoError(t, err)

	require.NotEqual(t, first.ID, second.ID)
	require.Same(t, second, flow.Active())
}

func TestCancelStopsCountdown(t *testing.T) {
	flow := NewFlow(&fakeGateway{}, 0)

	attempt, _, err := flow.RequestOTP(context.Background(), validate.Registration{
		Phone: "0899999999", Role: "student",
	})
	require.NoError(t, err)

	flow.Cancel()
	require.Nil(t, flow.Active())

	// Stop is idempotent.
	attempt.Stop()
}
