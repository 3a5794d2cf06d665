package repository

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
)

// accessTable maps a list to its table; the name never comes from user input.
func accessTable(list model.AccessList) (string, error) {
	switch list {
	case model.Blacklist:
		return "blacklist", nil
	case model.Whitelist:
		return "whitelist", nil
	default:
		return "", fmt.Errorf("unknown access list %q", list)
	}
}

// HasAccessEntry reports whether ip is present in list.
func (r *Repository) HasAccessEntry(ctx context.Context, list model.AccessList, ip string) (bool, error) {
	table, err := accessTable(list)
	if err != nil {
		return false, err
	}
	var found bool
	err = r.db().QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+table+` WHERE ip_address = $1)`,
		ip,
	).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", table, err)
	}
	return found, nil
}

// AddAccessEntry adds ip to list. Adding a present address is a no-op.
func (r *Repository) AddAccessEntry(ctx context.Context, list model.AccessList, ip string) error {
	table, err := accessTable(list)
	if err != nil {
		return err
	}
	_, err = r.db().Exec(ctx,
		`INSERT INTO `+table+` (ip_address) VALUES ($1) ON CONFLICT (ip_address) DO NOTHING`,
		ip,
	)
	if err != nil {
		return fmt.Errorf("add to %s: %w", table, err)
	}
	return nil
}

// RemoveAccessEntry removes ip from list. Removing an absent address is a no-op.
func (r *Repository) RemoveAccessEntry(ctx context.Context, list model.AccessList, ip string) error {
	table, err := accessTable(list)
	if err != nil {
		return err
	}
	if _, err := r.db().Exec(ctx, `DELETE FROM `+table+` WHERE ip_address = $1`, ip); err != nil {
		return fmt.Errorf("remove from %s: %w", table, err)
	}
	return nil
}
