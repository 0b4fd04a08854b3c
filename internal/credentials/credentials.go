// Package credentials resolves the Gemini API key from the configured source.
package credentials

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/diogo/teestudio/internal/config"
	apierrors "github.com/diogo/teestudio/internal/errors"
)

// Resolver turns an api_key_source value into a key. Its fields are seams for
// tests; the zero value is not usable, use NewResolver.
type Resolver struct {
	lookupEnv func(string) (string, bool)
	readFile  func(string) ([]byte, error)
	newGetter func(context.Context) (Getter, error)
	logger    *slog.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithLookupEnv replaces os.LookupEnv
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(r *Resolver) { r.lookupEnv = fn }
}

// WithReadFile replaces os.ReadFile
func WithReadFile(fn func(string) ([]byte, error)) Option {
	return func(r *Resolver) { r.readFile = fn }
}

// WithParamStore replaces the AWS-backed parameter getter
func WithParamStore(g Getter) Option {
	return func(r *Resolver) {
		r.newGetter = func(context.Context) (Getter, error) { return g, nil }
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver creates a Resolver using the real environment, filesystem and AWS.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		lookupEnv: os.LookupEnv,
		readFile:  os.ReadFile,
		newGetter: defaultParamStore,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the API key named by source. An empty key is ErrNoAPIKey.
func (r *Resolver) Resolve(ctx context.Context, source string) (string, error) {
	kind, arg, err := config.ParseKeySource(source)
	if err != nil {
		return "", err
	}

	var key string
	switch kind {
	case config.KeySourceEnv:
		key, _ = r.lookupEnv(arg)
	case "file":
		data, err := r.readFile(arg)
		if err != nil {
			return "", fmt.Errorf("read api key file: %w", err)
		}
		key = string(data)
	case "ssm":
		getter, err := r.newGetter(ctx)
		if err != nil {
			return "", err
		}
		key, err = getter.GetParameter(ctx, arg)
		if err != nil {
			return "", err
		}
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("%w (source %s)", apierrors.ErrNoAPIKey, kind)
	}
	r.logger.Debug("api_key_resolved", slog.String("source", kind))
	return key, nil
}

// Resolve uses a default Resolver.
func Resolve(ctx context.Context, source string) (string, error) {
	return NewResolver().Resolve(ctx, source)
}
