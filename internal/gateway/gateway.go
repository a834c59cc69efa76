package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/PhumPatananiti/schooldesk/internal/model"
)

// Client is the only caller of the four identity endpoints. It
// translates the API's {success, message} envelope into typed
// outcomes and never inspects credentials itself.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// LoginResult is a successful authentication: the identity the server
// resolved plus its bearer token.
type LoginResult struct {
	Identity model.Identity
	Token    string
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type apiUser struct {
	ID           string `json:"id"`
	Phone        string `json:"phone"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	IsFirstLogin bool   `json:"isFirstLogin"`
}

func (c *Client) Login(ctx context.Context, phone, password string, role model.Role) (LoginResult, error) {
	var out struct {
		User  json.RawMessage `json:"user"`
		Token string          `json:"token"`
	}
	err := c.post(ctx, "/auth/login", "", loginRequest{
		Phone:    phone,
		Password: password,
		Role:     string(role),
	}, &out)
	if err != nil {
		return LoginResult{}, err
	}

	var user apiUser
	if err := json.Unmarshal(out.User, &user); err != nil {
		return LoginResult{}, &RemoteError{Message: "malformed login response"}
	}

	identity := model.Identity{
		ID:           user.ID,
		Phone:        user.Phone,
		Role:         role,
		DisplayName:  user.Name,
		IsFirstLogin: user.IsFirstLogin,
		Profile:      out.User,
	}
	if parsed, ok := model.ParseRole(user.Role); ok {
		identity.Role = parsed
	}
	return LoginResult{Identity: identity, Token: out.Token}, nil
}

type sendOTPRequest struct {
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// SendOTP asks the server to issue a passcode to the phone. The
// returned code is empty except in the server's diagnostic mode.
func (c *Client) SendOTP(ctx context.Context, phone string, role model.Role) (string, error) {
	var out struct {
		OTP string `json:"otp"`
	}
	err := c.post(ctx, "/auth/send-otp", "", sendOTPRequest{
		Phone: phone,
		Role:  string(role),
	}, &out)
	if err != nil {
		return "", err
	}
	return out.OTP, nil
}

type verifyOTPRequest struct {
	Phone    string `json:"phone"`
	OTP      string `json:"otp"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (c *Client) VerifyOTP(ctx context.Context, phone, code, password string, role model.Role) error {
	return c.post(ctx, "/auth/verify-otp", "", verifyOTPRequest{
		Phone:    phone,
		OTP:      code,
		Password: password,
		Role:     string(role),
	}, nil)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword,omitempty"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword rotates the password for the session the token
// belongs to. OldPassword is omitted on a first-login rotation.
func (c *Client) ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error {
	return c.post(ctx, "/auth/change-password", token, changePasswordRequest{
		OldPassword: oldPassword,
		NewPassword: newPassword,
	}, nil)
}

func (c *Client) post(ctx context.Context, path, token string, payload, out interface{}) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	// An auth failure on an authenticated call tears the session
	// down globally. On unauthenticated calls a 401 is just a
	// rejection (wrong credentials).
	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		return ErrCredentialInvalidated
	}

	var env struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	body, err := readBody(resp)
	if err != nil {
		return &TransportError{Err: err}
	}
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode >= 400 {
			return &RemoteError{}
		}
		return &RemoteError{Message: "malformed response"}
	}
	if !env.Success || resp.StatusCode >= 400 {
		return &RemoteError{Message: env.Message}
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return &RemoteError{Message: "malformed response"}
		}
	}
	return nil
}

func readBody(resp *http.Response) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
