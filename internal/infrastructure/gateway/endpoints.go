package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/esop/dhcp-console/internal/core/domain"
	"github.com/esop/dhcp-console/internal/core/ports"
)

var _ ports.Gateway = (*Client)(nil)

type registerRequest struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

type updateRequest struct {
	Email    *string      `json:"email,omitempty"`
	Role     *domain.Role `json:"role,omitempty"`
	IsActive *bool        `json:"is_active,omitempty"`
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password,omitempty"`
	NewPassword     string `json:"new_password"`
}

// leaseWire is one entry of the clients map. The upstream has shipped the
// hostname under both spellings.
type leaseWire struct {
	Lease          string `json:"lease"`
	Starts         int64  `json:"starts"`
	Ends           int64  `json:"ends"`
	Cltt           int64  `json:"cltt"`
	State          string `json:"state"`
	NextState      string `json:"nextState"`
	MAC            string `json:"mac"`
	ClientHostname string `json:"client_hostname"`
	HyphenHostname string `json:"client-hostname"`
}

type clientsResponse struct {
	Clients map[string]leaseWire `json:"clients"`
}

// Profile fetches GET /users/me for the credentials in ctx.
func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	var u domain.User
	err := c.do(ctx, request{endpoint: "users.me", method: http.MethodGet, path: []string{"users", "me"}}, &u)
	if err != nil {
		return nil, err
	}
	if u.Username == "" {
		return nil, malformed(http.StatusOK, errMissingField("username"))
	}
	return &u, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := c.do(ctx, request{endpoint: "users.list", method: http.MethodGet, path: []string{"users"}}, &users)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) RegisterUser(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error) {
	var u domain.User
	err := c.do(ctx, request{
		endpoint: "auth.register",
		method:   http.MethodPost,
		path:     []string{"auth", "register"},
		body: registerRequest{
			Username: in.Username,
			Email:    in.Email,
			Password: in.Password,
			Role:     in.Role,
		},
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	var u domain.User
	err := c.do(ctx, request{
		endpoint: "users.update",
		method:   http.MethodPatch,
		path:     []string{"users", strconv.FormatInt(id, 10)},
		body:     updateRequest{Email: in.Email, Role: in.Role, IsActive: in.IsActive},
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ResetPassword is the admin reset of another user's password.
func (c *Client) ResetPassword(ctx context.Context, id int64, newPassword string) error {
	return c.do(ctx, request{
		endpoint: "users.reset_password",
		method:   http.MethodPost,
		path:     []string{"users", strconv.FormatInt(id, 10), "reset-password"},
		body:     passwordRequest{NewPassword: newPassword},
	}, nil)
}

func (c *Client) ResetOwnPassword(ctx context.Context, currentPassword, newPassword string) error {
	return c.do(ctx, request{
		endpoint: "users.me.reset_password",
		method:   http.MethodPost,
		path:     []string{"users", "me", "reset-password"},
		body:     passwordRequest{CurrentPassword: currentPassword, NewPassword: newPassword},
	}, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, request{
		endpoint: "users.delete",
		method:   http.MethodDelete,
		path:     []string{"users", strconv.FormatInt(id, 10)},
	}, nil)
}

func (c *Client) ListAppliances(ctx context.Context) ([]domain.Appliance, error) {
	var appliances []domain.Appliance
	err := c.do(ctx, request{endpoint: "appliances.list", method: http.MethodGet, path: []string{"appliances"}}, &appliances)
	if err != nil {
		return nil, err
	}
	return appliances, nil
}

// ListClients returns leases in no particular order; the map key is the
// client IP.
func (c *Client) ListClients(ctx context.Context, nePk string) ([]domain.Lease, error) {
	r := request{endpoint: "clients.list", method: http.MethodGet, path: []string{"clients"}}
	if nePk != "" {
		r.query = url.Values{"nePk": {nePk}}
	}

	var resp clientsResponse
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}

	leases := make([]domain.Lease, 0, len(resp.Clients))
	for ip, w := range resp.Clients {
		hostname := w.ClientHostname
		if hostname == "" {
			hostname = w.HyphenHostname
		}
		leases = append(leases, domain.Lease{
			IP:             ip,
			ClientHostname: hostname,
			MAC:            w.MAC,
			State:          w.State,
			NextState:      w.NextState,
			Starts:         w.Starts,
			Ends:           w.Ends,
			Cltt:           w.Cltt,
		})
	}
	return leases, nil
}

type errMissingField string

func (e errMissingField) Error() string { return "missing field " + string(e) }
