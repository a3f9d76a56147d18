package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	maxFailedSignIns  = 5
	lockoutDuration   = 5 * time.Minute
	defaultBcryptCost = bcrypt.DefaultCost
)

var validate = validator.New()

type account struct {
	identity Identity
	hash     []byte
	failures int

	// lockedUntil is set once failures reaches maxFailedSignIns.
	lockedUntil time.Time
}

// MemoryProvider is an in-process identity provider for offline use and tests.
// Accounts live only as long as the process.
type MemoryProvider struct {
	mu       sync.RWMutex
	accounts map[string]*account // keyed by lower-cased email
	current  *Identity
	cost     int
	now      func() time.Time
	watchers sessionWatchers
}

// NewMemoryProvider creates an empty MemoryProvider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		accounts: make(map[string]*account),
		cost:     defaultBcryptCost,
		now:      time.Now,
	}
}

// WithBcryptCost lowers hashing cost, mainly for tests.
func (p *MemoryProvider) WithBcryptCost(cost int) *MemoryProvider {
	p.cost = cost
	return p
}

// WithClock replaces the time source used for sign-in lockouts.
func (p *MemoryProvider) WithClock(now func() time.Time) *MemoryProvider {
	p.now = now
	return p
}

func (p *MemoryProvider) SignUp(_ context.Context, email, password, displayName string) (Identity, error) {
	id, err := p.signUp(email, password, displayName)
	if err != nil {
		return Identity{}, err
	}
	p.watchers.notify(&id)
	return id, nil
}

func (p *MemoryProvider) signUp(email, password, displayName string) (Identity, error) {
	email = strings.TrimSpace(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return Identity{}, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	if len(password) < minPasswordLength {
		return Identity{}, ErrWeakPassword
	}

	key := strings.ToLower(email)

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.accounts[key]; exists {
		return Identity{}, ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return Identity{}, fmt.Errorf("hashing password: %w", err)
	}

	id := Identity{
		UID:         uuid.NewString(),
		Email:       email,
		DisplayName: displayName,
	}
	p.accounts[key] = &account{identity: id, hash: hash}
	p.current = &id
	return id, nil
}

func (p *MemoryProvider) SignIn(_ context.Context, email, password string) (Identity, error) {
	id, err := p.signIn(email, password)
	if err != nil {
		return Identity{}, err
	}
	p.watchers.notify(&id)
	return id, nil
}

func (p *MemoryProvider) signIn(email, password string) (Identity, error) {
	email = strings.TrimSpace(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return Identity{}, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	acc, ok := p.accounts[strings.ToLower(email)]
	if !ok {
		return Identity{}, ErrUserNotFound
	}
	now := p.now()
	if !acc.lockedUntil.IsZero() {
		if now.Before(acc.lockedUntil) {
			return Identity{}, ErrTooManyAttempts
		}
		acc.failures = 0
		acc.lockedUntil = time.Time{}
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		acc.failures++
		if acc.failures >= maxFailedSignIns {
			acc.lockedUntil = now.Add(lockoutDuration)
		}
		return Identity{}, ErrWrongPassword
	}

	acc.failures = 0
	id := acc.identity
	p.current = &id
	return id, nil
}

func (p *MemoryProvider) SignOut(context.Context) error {
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()

	p.watchers.notify(nil)
	return nil
}

// Watch calls fn with the current user now and after every session change.
func (p *MemoryProvider) Watch(fn func(*Identity)) (cancel func()) {
	return p.watchers.watch(p.CurrentUser(), fn)
}

func (p *MemoryProvider) CurrentUser() *Identity {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.current == nil {
		return nil
	}
	id := *p.current
	return &id
}
