package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/esop/dhcp-console/internal/api/view"
	"github.com/esop/dhcp-console/internal/core/domain"
	"github.com/esop/dhcp-console/internal/core/ports"
)

type LeaseHandler struct {
	leases ports.LeaseService
}

func NewLeaseHandler(leases ports.LeaseService) *LeaseHandler {
	return &LeaseHandler{leases: leases}
}

// List renders GET /clients/:nePk. The hostname and site query parameters
// only decorate the heading.
func (h *LeaseHandler) List(c echo.Context) error {
	nePk := c.Param("nePk")
	page := view.ClientsPage{
		Layout:   layoutFor(c, "DHCP Clients", view.PageClients),
		NePk:     nePk,
		Hostname: c.QueryParam("hostname"),
		Site:     c.QueryParam("site"),
	}

	leases, err := h.leases.ListBySite(c.Request().Context(), nePk)
	if err != nil {
		if sessionExpired(err) {
			return err
		}
		page.Error = domain.DisplayMessage(err, "Failed to load clients")
		return c.Render(http.StatusBadGateway, view.PageClients, page)
	}
	page.Rows = view.LeaseRows(leases)
	return c.Render(http.StatusOK, view.PageClients, page)
}
