package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/reqcache/auth"
	"github.com/jonwraymond/reqcache/cache"
	"github.com/jonwraymond/reqcache/config"
	"github.com/jonwraymond/reqcache/observe"
	"github.com/jonwraymond/reqcache/store"
)

// app is an opened client with its observability stack.
type app struct {
	cfg     *config.Config
	obs     observe.Observer
	logger  observe.Logger
	session *auth.SessionProvider
	client  *cache.Client
}

func openApp(ctx context.Context, opts *options) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	obs, err := observe.NewObserver(ctx, cfg.Observe)
	if err != nil {
		return nil, err
	}
	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		obs:     obs,
		logger:  mw.Logger(),
		session: auth.NewSessionProvider(),
	}

	if opts.token != "" {
		id, err := a.session.Login(ctx, opts.token, cfg.Auth.JWTConfig, cfg.Auth.KeyProvider())
		if err != nil {
			_ = obs.Shutdown(ctx)
			return nil, fmt.Errorf("login: %w", err)
		}
		a.logger.Debug(ctx, "logged in", observe.F("principal", id.Principal), observe.F("tenant", id.TenantID))
	}

	st, err := store.New(cfg.Store)
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, err
	}

	a.client, err = cache.New(cache.Config{
		Store:         st,
		Identity:      a.session,
		Policy:        cfg.Cache.Policy(),
		SerializeKeys: cfg.Cache.SerializeKeys,
		Logger:        mw.Logger(),
		Metrics:       mw.Metrics(),
		Tracer:        mw.Tracer(),
	})
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, err
	}

	if err := a.client.Open(ctx); err != nil {
		_ = obs.Shutdown(ctx)
		return nil, fmt.Errorf("open %s store: %w", st.Name(), err)
	}
	return a, nil
}

func (a *app) Close(ctx context.Context) error {
	return errors.Join(a.client.Close(), a.obs.Shutdown(ctx))
}
