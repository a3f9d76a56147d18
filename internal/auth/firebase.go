package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/i474232898/angin-nusantara/internal/common"
)

// DefaultIdentityToolkitURL is the Firebase Auth REST endpoint root.
const DefaultIdentityToolkitURL = "https://identitytoolkit.googleapis.com/v1"

type firebaseSession struct {
	identity     Identity
	idToken      string
	refreshToken string
}

// FirebaseProvider signs users in with email and password through the
// Firebase Auth (Identity Toolkit) REST API and keeps the session in memory.
type FirebaseProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client

	mu      sync.RWMutex
	session *firebaseSession

	watchers sessionWatchers
}

// NewFirebaseProvider creates a FirebaseProvider. An empty baseURL uses DefaultIdentityToolkitURL.
func NewFirebaseProvider(client *http.Client, apiKey, baseURL string) *FirebaseProvider {
	if baseURL == "" {
		baseURL = DefaultIdentityToolkitURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &FirebaseProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type credentialRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type profileRequest struct {
	IDToken           string `json:"idToken"`
	DisplayName       string `json:"displayName"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type accountResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *FirebaseProvider) SignUp(ctx context.Context, email, password, displayName string) (Identity, error) {
	var created accountResponse
	err := p.call(ctx, "accounts:signUp", credentialRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &created)
	if err != nil {
		return Identity{}, err
	}

	sess := &firebaseSession{
		identity: Identity{
			UID:         created.LocalID,
			Email:       created.Email,
			DisplayName: displayName,
		},
		idToken:      created.IDToken,
		refreshToken: created.RefreshToken,
	}

	if displayName != "" {
		var updated accountResponse
		err := p.call(ctx, "accounts:update", profileRequest{
			IDToken:     created.IDToken,
			DisplayName: displayName,
		}, &updated)
		if err != nil {
			return Identity{}, fmt.Errorf("setting display name: %w", err)
		}
	}

	p.setSession(sess)
	return sess.identity, nil
}

func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (Identity, error) {
	var signed accountResponse
	err := p.call(ctx, "accounts:signInWithPassword", credentialRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &signed)
	if err != nil {
		return Identity{}, err
	}

	sess := &firebaseSession{
		identity: Identity{
			UID:         signed.LocalID,
			Email:       signed.Email,
			DisplayName: signed.DisplayName,
		},
		idToken:      signed.IDToken,
		refreshToken: signed.RefreshToken,
	}
	p.setSession(sess)
	return sess.identity, nil
}

// SignOut drops the local tokens; Firebase ID tokens are not revoked server-side.
func (p *FirebaseProvider) SignOut(context.Context) error {
	p.setSession(nil)
	return nil
}

func (p *FirebaseProvider) CurrentUser() *Identity {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.session == nil {
		return nil
	}
	id := p.session.identity
	return &id
}

// Watch calls fn with the current user now and after every session change.
func (p *FirebaseProvider) Watch(fn func(*Identity)) (cancel func()) {
	return p.watchers.watch(p.CurrentUser(), fn)
}

func (p *FirebaseProvider) setSession(s *firebaseSession) {
	p.mu.Lock()
	p.session = s
	p.mu.Unlock()

	if s == nil {
		p.watchers.notify(nil)
		return
	}
	p.watchers.notify(&s.identity)
}

func (p *FirebaseProvider) call(ctx context.Context, method string, body, out interface{}) error {
	if p.apiKey == "" {
		return fmt.Errorf("firebase api key is not configured")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/%s?key=%s", p.baseURL, method, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		var e errorResponse
		if json.Unmarshal(raw, &e) != nil || e.Error.Message == "" {
			return fmt.Errorf("%s: unexpected status %d", method, resp.StatusCode)
		}
		return mapFirebaseError(e.Error.Message)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", method, err)
	}
	return nil
}

// mapFirebaseError maps Identity Toolkit error messages such as
// "WEAK_PASSWORD : Password should be at least 6 characters" onto error kinds.
func mapFirebaseError(msg string) error {
	var kind error
	switch {
	case common.HasAny(msg, "EMAIL_EXISTS"):
		kind = ErrEmailInUse
	case common.HasAny(msg, "INVALID_EMAIL", "MISSING_EMAIL"):
		kind = ErrInvalidEmail
	case common.HasAny(msg, "WEAK_PASSWORD"):
		kind = ErrWeakPassword
	case common.HasAny(msg, "EMAIL_NOT_FOUND"):
		kind = ErrUserNotFound
	case common.HasAny(msg, "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "MISSING_PASSWORD"):
		kind = ErrWrongPassword
	case common.HasAny(msg, "TOO_MANY_ATTEMPTS_TRY_LATER"):
		kind = ErrTooManyAttempts
	default:
		return fmt.Errorf("%w: %s", ErrUnknown, msg)
	}
	return fmt.Errorf("%w: %s", kind, msg)
}
