package net

import (
	"context"
	"errors"
	"fmt"
	stdnet "net"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
	"pkt.systems/pslog"

	"Exacldraw/internal/logx"
)

// ServiceType is the mDNS service a drawing backend advertises.
const ServiceType = "_exacldraw._tcp"

// ErrNotFound is returned when no backend answered the discovery query.
var ErrNotFound = errors.New("net: no backend found")

// Discover browses the local network for a backend and returns the base URL
// of the first one that answers within timeout.
func Discover(ctx context.Context, timeout time.Duration, logger pslog.Logger) (string, error) {
	log := logx.WithComponent(logger, "discovery")
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	entries := make(chan *mdns.ServiceEntry, 16)
	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	done := make(chan error, 1)
	go func() { done <- mdns.Query(params) }()

	log.Debug("browsing", "service", ServiceType, "timeout", timeout.String())
	for {
		select {
		case e := <-entries:
			if u, ok := entryURL(e); ok {
				log.Info("backend discovered", "url", u, "name", e.Name)
				return u, nil
			}
		case err := <-done:
			if err != nil {
				return "", fmt.Errorf("net: mdns query: %w", err)
			}
			for {
				select {
				case e := <-entries:
					if u, ok := entryURL(e); ok {
						log.Info("backend discovered", "url", u, "name", e.Name)
						return u, nil
					}
				default:
					return "", ErrNotFound
				}
			}
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// entryURL builds a base URL from a service entry. A TXT field
// "scheme=https" selects https.
func entryURL(e *mdns.ServiceEntry) (string, bool) {
	if e == nil || e.Port <= 0 {
		return "", false
	}
	var host string
	switch {
	case e.AddrV4 != nil:
		host = e.AddrV4.String()
	case e.AddrV6 != nil:
		host = e.AddrV6.String()
	default:
		return "", false
	}
	scheme := "http"
	for _, f := range e.InfoFields {
		if v, ok := strings.CutPrefix(strings.TrimSpace(f), "scheme="); ok && (v == "http" || v == "https") {
			scheme = v
		}
	}
	return scheme + "://" + stdnet.JoinHostPort(host, strconv.Itoa(e.Port)), true
}

// ResolveBaseURL returns baseURL when set, otherwise discovers a backend when
// discover is enabled.
func ResolveBaseURL(ctx context.Context, baseURL string, discover bool, timeout time.Duration, logger pslog.Logger) (string, error) {
	if u := strings.TrimSpace(baseURL); u != "" {
		return u, nil
	}
	if !discover {
		return "", errors.New("net: no backend configured; set backend.base_url")
	}
	return Discover(ctx, timeout, logger)
}
