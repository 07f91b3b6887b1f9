package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var res LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.call(ctx, "login", http.MethodPost, "/auth/login/", body, &res); err != nil {
		return LoginResult{}, err
	}
	return res, nil
}

// LoginFederated exchanges a federated identity credential (a Google ID
// token) for a session. Federated accounts arrive with a verified email.
func (c *Client) LoginFederated(ctx context.Context, credential string) (LoginResult, error) {
	var res LoginResult
	body := map[string]string{"credential": credential}
	if err := c.call(ctx, "federated login", http.MethodPost, "/auth/google/", body, &res); err != nil {
		return LoginResult{}, err
	}
	return res, nil
}

func (c *Client) Register(ctx context.Context, email, password, name string) (LoginResult, error) {
	var res LoginResult
	body := map[string]string{"email": email, "password": password, "name": name}
	if err := c.call(ctx, "register", http.MethodPost, "/auth/register/", body, &res); err != nil {
		return LoginResult{}, err
	}
	return res, nil
}

func (c *Client) VerifyEmail(ctx context.Context, token string) (VerifyResult, error) {
	var res VerifyResult
	path := fmt.Sprintf("/auth/verify-email/%s/", url.PathEscape(token))
	if err := c.call(ctx, "verify email", http.MethodGet, path, nil, &res); err != nil {
		return VerifyResult{}, err
	}
	return res, nil
}

func (c *Client) ResendVerification(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.call(ctx, "resend verification", http.MethodPost, "/auth/resend-verification/", body, nil)
}

func (c *Client) CompleteOnboarding(ctx context.Context, skipped bool) error {
	body := map[string]bool{"skipped": skipped}
	return c.call(ctx, "complete onboarding", http.MethodPost, "/auth/complete-onboarding/", body, nil)
}

// LookupUser probes whether an account exists. Session revalidation treats
// a 404 here as the only definitive "account gone" signal.
func (c *Client) LookupUser(ctx context.Context, email string) (UserLookup, error) {
	var res UserLookup
	path := "/users/?email=" + url.QueryEscape(email)
	if err := c.call(ctx, "lookup user", http.MethodGet, path, nil, &res); err != nil {
		return UserLookup{}, err
	}
	return res, nil
}

func (c *Client) GetProfile(ctx context.Context) (Profile, error) {
	var p Profile
	if err := c.call(ctx, "get profile", http.MethodGet, "/users/profile/", nil, &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (c *Client) UpdateProfile(ctx context.Context, p Profile) (Profile, error) {
	var updated Profile
	if err := c.call(ctx, "update profile", http.MethodPut, "/users/profile/", p, &updated); err != nil {
		return Profile{}, err
	}
	return updated, nil
}
