package view

import (
	"github.com/esop/dhcp-console/internal/core/domain"
)

const notAvailable = "N/A"

type SiteRow struct {
	NePk     string
	HostName string
	Site     string
	Model    string
	IP       string
}

type LeaseRow struct {
	IP       string
	Hostname string
	MAC      string
	State    string
}

type UserRow struct {
	ID       int64
	Username string
	Email    string
	Role     domain.Role
	IsActive bool
	Active   string
	IsSelf   bool
}

// SiteRows converts appliances to table rows, showing N/A for a missing
// site or model.
func SiteRows(appliances []domain.Appliance) []SiteRow {
	rows := make([]SiteRow, 0, len(appliances))
	for _, a := range appliances {
		rows = append(rows, SiteRow{
			NePk:     a.NePk,
			HostName: a.HostName,
			Site:     orNA(a.Site),
			Model:    orNA(a.Model),
			IP:       a.IP,
		})
	}
	return rows
}

// LeaseRows keeps the order of leases, one row each.
func LeaseRows(leases []domain.Lease) []LeaseRow {
	rows := make([]LeaseRow, 0, len(leases))
	for _, l := range leases {
		rows = append(rows, LeaseRow{
			IP:       l.IP,
			Hostname: orNA(l.ClientHostname),
			MAC:      l.MAC,
			State:    l.State,
		})
	}
	return rows
}

// UserRows marks the row of the current user so the page can hide its
// delete button.
func UserRows(users []domain.User, current *domain.User) []UserRow {
	rows := make([]UserRow, 0, len(users))
	for _, u := range users {
		active := "✗"
		if u.IsActive {
			active = "✓"
		}
		rows = append(rows, UserRow{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Role:     u.Role,
			IsActive: u.IsActive,
			Active:   active,
			IsSelf:   current != nil && current.ID == u.ID,
		})
	}
	return rows
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
