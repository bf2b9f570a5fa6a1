package service

import (
	"context"
	"fmt"
	"net/netip"
	"sort"

	"github.com/esop/dhcp-console/internal/core/domain"
	"github.com/esop/dhcp-console/internal/core/ports"
)

// LeaseService reads DHCP lease tables.
type LeaseService struct {
	gateway ports.Gateway
}

var _ ports.LeaseService = (*LeaseService)(nil)

func NewLeaseService(gateway ports.Gateway) *LeaseService {
	return &LeaseService{gateway: gateway}
}

// ListBySite returns the leases of one appliance ordered by client IP.
// An empty nePk lists the leases of every appliance.
func (s *LeaseService) ListBySite(ctx context.Context, nePk string) ([]domain.Lease, error) {
	leases, err := s.gateway.ListClients(ctx, nePk)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	SortLeases(leases)
	return leases, nil
}

// SortLeases orders leases by IP address. Keys that are not addresses sort
// after the ones that are, lexically.
func SortLeases(leases []domain.Lease) {
	sort.SliceStable(leases, func(i, j int) bool {
		a, errA := netip.ParseAddr(leases[i].IP)
		b, errB := netip.ParseAddr(leases[j].IP)
		switch {
		case errA == nil && errB == nil:
			return a.Less(b)
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return leases[i].IP < leases[j].IP
		}
	})
}
