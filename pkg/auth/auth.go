package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultClubPlan is the payment plan that grants club members access to
// their own organizer's analysis.
const DefaultClubPlan = "マジセミ倶楽部"

// ErrInvalidCredentials means the membership API rejected the login, as
// opposed to the call itself failing.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Account is the membership profile returned by a successful login.
type Account struct {
	// Member accounts see every organizer; club accounts are pinned to
	// their own group code.
	Member    bool   `json:"member"`
	GroupCode string `json:"group_code"`
}

// Client talks to the remote membership API.
type Client struct {
	client   *http.Client
	baseURL  string
	clubPlan string
}

// New creates a membership API client rooted at baseURL.
func New(baseURL, clubPlan string) *Client {
	if clubPlan == "" {
		clubPlan = DefaultClubPlan
	}
	return &Client{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  strings.TrimRight(baseURL, "/"),
		clubPlan: clubPlan,
	}
}

// Login checks credentials against the membership API. Rejected credentials
// return ErrInvalidCredentials; transport and protocol problems return a
// wrapped error.
func (c *Client) Login(ctx context.Context, username, password string) (*Account, error) {
	form := url.Values{}
	form.Set("name", username)
	form.Set("pass", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/check_user", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "leadscore/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call membership api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("membership api status %d", resp.StatusCode)
	}

	var body struct {
		Status    string `json:"status"`
		Majisemi  bool   `json:"majisemi"`
		GroupCode string `json:"group_code"`
		Payment   string `json:"payment"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode membership response: %w", err)
	}

	if body.Status != "ok" {
		return nil, ErrInvalidCredentials
	}
	switch {
	case body.Majisemi:
		return &Account{Member: true, GroupCode: body.GroupCode}, nil
	case body.Payment == c.clubPlan:
		return &Account{Member: false, GroupCode: body.GroupCode}, nil
	default:
		return nil, ErrInvalidCredentials
	}
}
