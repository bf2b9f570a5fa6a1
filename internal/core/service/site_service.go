package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/esop/dhcp-console/internal/core/domain"
	"github.com/esop/dhcp-console/internal/core/ports"
)

// SiteService lists the appliances an operator can pick a site from.
type SiteService struct {
	gateway ports.Gateway
}

var _ ports.SiteService = (*SiteService)(nil)

func NewSiteService(gateway ports.Gateway) *SiteService {
	return &SiteService{gateway: gateway}
}

// Search returns the appliances matching query (see FilterAppliances).
func (s *SiteService) Search(ctx context.Context, query string) ([]domain.Appliance, error) {
	appliances, err := s.gateway.ListAppliances(ctx)
	if err != nil {
		return nil, fmt.Errorf("list appliances: %w", err)
	}
	return FilterAppliances(appliances, query), nil
}

// FilterAppliances keeps the appliances whose host name or site contains
// query, case-insensitively. An empty query keeps everything.
func FilterAppliances(appliances []domain.Appliance, query string) []domain.Appliance {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return appliances
	}
	out := make([]domain.Appliance, 0, len(appliances))
	for _, a := range appliances {
		if strings.Contains(strings.ToLower(a.HostName), q) ||
			(a.Site != "" && strings.Contains(strings.ToLower(a.Site), q)) {
			out = append(out, a)
		}
	}
	return out
}
