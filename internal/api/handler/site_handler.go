package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/esop/dhcp-console/internal/api/view"
	"github.com/esop/dhcp-console/internal/core/domain"
	"github.com/esop/dhcp-console/internal/core/ports"
)

// SiteHandler serves the home page and the site selector.
type SiteHandler struct {
	sites ports.SiteService
}

func NewSiteHandler(sites ports.SiteService) *SiteHandler {
	return &SiteHandler{sites: sites}
}

func (h *SiteHandler) Home(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageHome, view.HomePage{
		Layout: layoutFor(c, "Home", view.PageHome),
	})
}

// Select renders GET /select-site?q=.
func (h *SiteHandler) Select(c echo.Context) error {
	query := c.QueryParam("q")
	page := view.SitesPage{
		Layout: layoutFor(c, "Select a site", view.PageSites),
		Query:  query,
	}

	appliances, err := h.sites.Search(c.Request().Context(), query)
	if err != nil {
		if sessionExpired(err) {
			return err
		}
		page.Error = domain.DisplayMessage(err, "Failed to load sites")
		return c.Render(http.StatusBadGateway, view.PageSites, page)
	}
	page.Sites = view.SiteRows(appliances)
	return c.Render(http.StatusOK, view.PageSites, page)
}
