package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/angin-nusantara/internal/kv"
)

// IdentityCacheKey is the local cache key holding the signed-in identity.
const IdentityCacheKey = "userData"

// Gateway wraps an identity Provider and mirrors the signed-in identity into
// the local cache.
type Gateway struct {
	provider Provider
	cache    kv.Store
	now      func() time.Time
	log      *zap.Logger
}

// NewGateway creates a new Gateway.
func NewGateway(provider Provider, cache kv.Store, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{
		provider: provider,
		cache:    cache,
		now:      time.Now,
		log:      log.Named("auth"),
	}
}

// Register creates an account and caches its identity before returning.
func (g *Gateway) Register(ctx context.Context, email, password, displayName string) (Identity, error) {
	id, err := g.provider.SignUp(ctx, email, password, displayName)
	if err != nil {
		return Identity{}, g.fail("register", email, err)
	}
	if id.DisplayName == "" {
		id.DisplayName = displayName
	}
	created := g.now().UTC()
	id.CreatedAt = &created

	if err := g.storeIdentity(ctx, id); err != nil {
		return Identity{}, g.fail("register", email, err)
	}

	g.log.Info("user registered", zap.String("uid", id.UID))
	return id, nil
}

// Login signs in and overwrites the cached identity.
func (g *Gateway) Login(ctx context.Context, email, password string) (Identity, error) {
	id, err := g.provider.SignIn(ctx, email, password)
	if err != nil {
		return Identity{}, g.fail("login", email, err)
	}

	if err := g.storeIdentity(ctx, id); err != nil {
		return Identity{}, g.fail("login", email, err)
	}

	g.log.Info("user logged in", zap.String("uid", id.UID))
	return id, nil
}

// Logout clears the cached identity first, then ends the provider session.
// The sign-out is attempted even when clearing the cache fails.
func (g *Gateway) Logout(ctx context.Context) error {
	cacheErr := g.cache.Delete(ctx, IdentityCacheKey)
	if cacheErr != nil {
		g.log.Warn("clearing cached identity failed", zap.Error(cacheErr))
	}

	signOutErr := g.provider.SignOut(ctx)
	if signOutErr != nil {
		g.log.Warn("provider sign-out failed", zap.Error(signOutErr))
	}

	if err := errors.Join(cacheErr, signOutErr); err != nil {
		return fmt.Errorf("%w: logout: %v", ErrUnknown, err)
	}
	return nil
}

// CurrentIdentity returns the provider's session identity, nil when signed out.
func (g *Gateway) CurrentIdentity() *Identity {
	return g.provider.CurrentUser()
}

// WatchSession registers fn for session changes of the underlying provider.
func (g *Gateway) WatchSession(fn func(*Identity)) (cancel func()) {
	return g.provider.Watch(fn)
}

// CachedIdentity returns the locally cached identity, nil when absent or unreadable.
// It may disagree with CurrentIdentity.
func (g *Gateway) CachedIdentity(ctx context.Context) *Identity {
	raw, ok, err := g.cache.Get(ctx, IdentityCacheKey)
	if err != nil {
		g.log.Warn("reading cached identity failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		g.log.Warn("decoding cached identity failed", zap.Error(err))
		return nil
	}
	return &id
}

func (g *Gateway) storeIdentity(ctx context.Context, id Identity) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return g.cache.Set(ctx, IdentityCacheKey, string(raw))
}

// fail normalizes err so that it always matches exactly one error kind.
func (g *Gateway) fail(op, email string, err error) error {
	kind := Kind(err)
	g.log.Info(op+" failed",
		zap.String("email", email),
		zap.String("kind", kind.Error()),
		zap.Error(err))

	if kind == ErrUnknown && !errors.Is(err, ErrUnknown) {
		return fmt.Errorf("%w: %s: %v", ErrUnknown, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
