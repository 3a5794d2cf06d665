// Package access implements the IP allow/deny decision taken before any
// request reaches business logic.
package access

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strings"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
)

// ErrForbidden is returned for callers that are denied by the gate.
var ErrForbidden = errors.New("ip address is blacklisted")

// Decision is the outcome of Authorize.
type Decision int

const (
	Allow Decision = iota
	Deny
)

// String returns "allow" or "deny".
func (d Decision) String() string {
	if d == Deny {
		return "deny"
	}
	return "allow"
}

// ListChecker answers membership questions for the access lists;
// repository.Store satisfies it.
type ListChecker interface {
	HasAccessEntry(ctx context.Context, list model.AccessList, ip string) (bool, error)
}

// Gate composes the whitelist and blacklist predicates.
type Gate struct {
	lists ListChecker
}

// NewGate returns a Gate that consults lists.
func NewGate(lists ListChecker) *Gate {
	return &Gate{lists: lists}
}

// Whitelisted reports whether addr is on the whitelist.
func (g *Gate) Whitelisted(ctx context.Context, addr string) (bool, error) {
	return g.lists.HasAccessEntry(ctx, model.Whitelist, addr)
}

// Blacklisted reports whether addr is on the blacklist.
func (g *Gate) Blacklisted(ctx context.Context, addr string) (bool, error) {
	return g.lists.HasAccessEntry(ctx, model.Blacklist, addr)
}

// Authorize allows whitelisted callers without consulting the blacklist,
// denies blacklisted callers and allows everyone else.
func (g *Gate) Authorize(ctx context.Context, addr string) (Decision, error) {
	addr = Canonical(addr)

	ok, err := g.Whitelisted(ctx, addr)
	if err != nil {
		return Deny, fmt.Errorf("check whitelist: %w", err)
	}
	if ok {
		return Allow, nil
	}

	blocked, err := g.Blacklisted(ctx, addr)
	if err != nil {
		return Deny, fmt.Errorf("check blacklist: %w", err)
	}
	if blocked {
		return Deny, nil
	}
	return Allow, nil
}

// Canonical returns the normalized text form of an IP address, with
// IPv4-mapped IPv6 addresses unmapped. Unparseable input is returned trimmed.
func Canonical(addr string) string {
	addr = strings.TrimSpace(addr)
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return addr
	}
	return ip.Unmap().WithZone("").String()
}

// HostOf strips the port from a RemoteAddr-style "host:port" value.
func HostOf(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
