package access

import (
	"context"
	"errors"
	"testing"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/stretchr/testify/require"
)

type stubLists struct {
	white   map[string]bool
	black   map[string]bool
	err     error
	queried []model.AccessList
}

func (s *stubLists) HasAccessEntry(_ context.Context, list model.AccessList, ip string) (bool, error) {
	s.queried = append(s.queried, list)
	if s.err != nil {
		return false, s.err
	}
	if list == model.Whitelist {
		return s.white[ip], nil
	}
	return s.black[ip], nil
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name  string
		white []string
		black []string
		addr  string
		want  Decision
	}{
		{name: "in neither list", addr: "10.0.0.1", want: Allow},
		{name: "blacklisted only", black: []string{"10.0.0.1"}, addr: "10.0.0.1", want: Deny},
		{name: "whitelisted only", white: []string{"10.0.0.1"}, addr: "10.0.0.1", want: Allow},
		{name: "in both lists", white: []string{"10.0.0.1"}, black: []string{"10.0.0.1"}, addr: "10.0.0.1", want: Allow},
		{name: "other address blacklisted", black: []string{"10.0.0.2"}, addr: "10.0.0.1", want: Allow},
		{name: "mapped ipv4 matches", black: []string{"10.0.0.1"}, addr: "::ffff:10.0.0.1", want: Deny},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lists := &stubLists{white: map[string]bool{}, black: map[string]bool{}}
			for _, ip := range tt.white {
				lists.white[ip] = true
			}
			for _, ip := range tt.black {
				lists.black[ip] = true
			}

			got, err := NewGate(lists).Authorize(context.Background(), tt.addr)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestAuthorizeWhitelistShortCircuits(t *testing.T) {
	lists := &stubLists{white: map[string]bool{"192.0.2.7": true}}

	got, err := NewGate(lists).Authorize(context.Background(), "192.0.2.7")
	require.NoError(t, err)
	require.Equal(t, Allow, got)
	require.Equal(t, []model.AccessList{model.Whitelist}, lists.queried)
}

func TestAuthorizeStoreError(t *testing.T) {
	boom := errors.New("db down")

	got, err := NewGate(&stubLists{err: boom}).Authorize(context.Background(), "192.0.2.7")
	require.ErrorIs(t, err, boom)
	require.Equal(t, Deny, got)
}

func TestCanonical(t *testing.T) {
	require.Equal(t, "127.0.0.1", Canonical(" 127.0.0.1 "))
	require.Equal(t, "127.0.0.1", Canonical("::ffff:127.0.0.1"))
	require.Equal(t, "2001:db8::1", Canonical("2001:0db8:0000::0001"))
	require.Equal(t, "not-an-ip", Canonical("not-an-ip"))
}

func TestHostOf(t *testing.T) {
	require.Equal(t, "192.0.2.1", HostOf("192.0.2.1:5555"))
	require.Equal(t, "::1", HostOf("[::1]:8080"))
	require.Equal(t, "192.0.2.1", HostOf("192.0.2.1"))
}
