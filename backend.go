package main

import (
	"context"
	"errors"

	"pkt.systems/pslog"

	"Exacldraw/internal/config"
	"Exacldraw/internal/net"
)

var errSignedOut = errors.New("not signed in; run exacldraw signin first")

// openBackend resolves the backend and loads the stored token. With
// needToken set a missing token is an error.
func openBackend(ctx context.Context, cfg config.Config, needToken bool) (*net.Client, *net.TokenStore, error) {
	logger := pslog.Ctx(ctx)
	tokens, err := net.NewTokenStore(cfg.Backend.TokenFile, logger)
	if err != nil {
		return nil, nil, err
	}
	token, err := tokens.Load()
	switch {
	case errors.Is(err, net.ErrNoToken):
		if needToken {
			return nil, nil, errSignedOut
		}
	case err != nil:
		return nil, nil, err
	}

	base, err := net.ResolveBaseURL(ctx, cfg.Backend.BaseURL, cfg.Backend.Discover, cfg.Backend.DiscoverTimeout(), logger)
	if err != nil {
		return nil, tokens, err
	}
	client, err := net.NewClient(net.ClientOptions{
		BaseURL:  base,
		Token:    token,
		Timeout:  cfg.Backend.Timeout(),
		RetryMax: cfg.Backend.RetryMax,
		Logger:   logger,
	})
	if err != nil {
		return nil, tokens, err
	}
	return client, tokens, nil
}

// storeToken keeps the token for later commands.
func storeToken(tokens *net.TokenStore, token string) error {
	if tokens == nil {
		return nil
	}
	return tokens.Save(token)
}

// dropExpiredToken forgets the stored token when the backend rejected it.
func dropExpiredToken(ctx context.Context, tokens *net.TokenStore, err error) error {
	if !errors.Is(err, net.ErrUnauthorized) || tokens == nil {
		return err
	}
	if clearErr := tokens.Clear(); clearErr != nil {
		pslog.Ctx(ctx).Warn("clear token failed", "err", clearErr)
	}
	return errors.Join(err, errSignedOut)
}
