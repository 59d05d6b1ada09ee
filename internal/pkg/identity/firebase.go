package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/petropump/attendance-backend/internal/domain/auth"
)

const signInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// FirebaseProvider manages accounts through the Admin SDK and verifies
// passwords through the Identity Toolkit REST API, which the Admin SDK does not expose.
type FirebaseProvider struct {
	client     *fbauth.Client
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewFirebaseProvider(client *fbauth.Client, apiKey string) auth.IdentityProvider {
	endpoint := signInEndpoint
	if host := os.Getenv("FIREBASE_AUTH_EMULATOR_HOST"); host != "" {
		endpoint = "http://" + host + "/identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"
	}
	return &FirebaseProvider{
		client:     client,
		apiKey:     apiKey,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID string `json:"localId"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Error messages that mean the email/password pair is wrong or unusable.
var rejectedSignIn = []string{
	"EMAIL_NOT_FOUND",
	"INVALID_PASSWORD",
	"INVALID_LOGIN_CREDENTIALS",
	"INVALID_EMAIL",
	"USER_DISABLED",
}

// SignIn implements auth.IdentityProvider.
func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"?key="+url.QueryEscape(p.apiKey), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call identity toolkit: %w", err)
	}
	defer resp.Body.Close()

	var result signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode sign-in response (status %d): %w", resp.StatusCode, err)
	}

	if result.Error != nil {
		for _, code := range rejectedSignIn {
			if strings.HasPrefix(result.Error.Message, code) {
				return "", auth.ErrInvalidCredentials
			}
		}
		return "", fmt.Errorf("identity toolkit sign-in failed: %s", result.Error.Message)
	}
	if resp.StatusCode != http.StatusOK || result.LocalID == "" {
		return "", fmt.Errorf("identity toolkit sign-in failed with status %d", resp.StatusCode)
	}
	return result.LocalID, nil
}

// CreateAccount implements auth.IdentityProvider.
func (p *FirebaseProvider) CreateAccount(ctx context.Context, account auth.Account) (string, error) {
	params := (&fbauth.UserToCreate{}).
		Email(account.Email).
		Password(account.Password)
	if account.Name != "" {
		params = params.DisplayName(account.Name)
	}

	record, err := p.client.CreateUser(ctx, params)
	if err != nil {
		if fbauth.IsEmailAlreadyExists(err) {
			return "", auth.ErrEmailAlreadyExists
		}
		return "", fmt.Errorf("failed to create firebase user: %w", err)
	}
	return record.UID, nil
}

// UpdateAccount implements auth.IdentityProvider.
func (p *FirebaseProvider) UpdateAccount(ctx context.Context, id string, update auth.AccountUpdate) error {
	if update.Email == "" && update.Password == "" && update.Name == "" {
		return nil
	}

	params := &fbauth.UserToUpdate{}
	if update.Email != "" {
		params = params.Email(update.Email)
	}
	if update.Password != "" {
		params = params.Password(update.Password)
	}
	if update.Name != "" {
		params = params.DisplayName(update.Name)
	}

	if _, err := p.client.UpdateUser(ctx, id, params); err != nil {
		switch {
		case fbauth.IsUserNotFound(err):
			return auth.ErrAccountNotFound
		case fbauth.IsEmailAlreadyExists(err):
			return auth.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to update firebase user %s: %w", id, err)
	}
	return nil
}

// DeleteAccount implements auth.IdentityProvider.
func (p *FirebaseProvider) DeleteAccount(ctx context.Context, id string) error {
	if err := p.client.DeleteUser(ctx, id); err != nil {
		if fbauth.IsUserNotFound(err) {
			return auth.ErrAccountNotFound
		}
		return fmt.Errorf("failed to delete firebase user %s: %w", id, err)
	}
	return nil
}
