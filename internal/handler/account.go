// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/go-web-interface/internal/httpctx"
	"github.com/MKhiriev/go-web-interface/internal/invoke"
	"github.com/MKhiriev/go-web-interface/internal/route"
)

// Messages returned by the account routes.
const (
	MsgNoSubject       = "token has no subject"
	MsgProfileNotFound = "profile not found"
	MsgMissingSubject  = "subject query parameter is required"
	MsgProfileDeleted  = "profile deleted"
	MsgAdminArea       = "welcome to the admin area"
)

// ProfileRequest is the body of PUT /account/profile/update.
type ProfileRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=64"`
	Email       string `json:"email" validate:"omitempty,email"`
}

// Profile is a stored account profile.
type Profile struct {
	Subject     string    `json:"subject"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MeResponse is the body of GET /account/me.
type MeResponse struct {
	Subject string         `json:"subject"`
	Claims  httpctx.Claims `json:"claims"`
}

// AccountController serves the caller's account. Every route requires a
// bearer token; profile routes additionally require a role.
type AccountController struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

func NewAccountController() *AccountController {
	return &AccountController{profiles: make(map[string]Profile)}
}

func (c *AccountController) RequiresAuthentication() bool { return true }

func (c *AccountController) Routes() []route.Definition {
	return []route.Definition{
		route.Get("/account/me", invoke.MustMethod(c, "Me")),
		route.Get("/account/admin", invoke.MustMethod(c, "Admin"), route.WithRole("admin")),
		route.Get("/account/profile", invoke.MustMethod(c, "GetProfile"), route.WithRole("user")),
		route.Put("/account/profile/update", invoke.MustMethod(c, "UpdateProfile"), route.WithRole("user")),
		route.Delete("/account/profile/delete", invoke.MustMethod(c, "DeleteProfile"), route.WithRole("admin")),
	}
}

func (c *AccountController) Me(ctx *httpctx.Context) error {
	claims, _ := ctx.Claims()
	sub, err := subject(ctx)
	if err != nil {
		return err
	}
	return ctx.WriteJSON(http.StatusOK, MeResponse{Subject: sub, Claims: claims})
}

func (c *AccountController) Admin(ctx *httpctx.Context) error {
	return ctx.SendOK(MsgAdminArea)
}

func (c *AccountController) GetProfile(ctx *httpctx.Context) error {
	sub, err := subject(ctx)
	if err != nil {
		return err
	}

	c.mu.RLock()
	profile, ok := c.profiles[sub]
	c.mu.RUnlock()
	if !ok {
		return httpctx.NewStatusError(http.StatusNotFound, MsgProfileNotFound)
	}

	return ctx.WriteJSON(http.StatusOK, profile)
}

func (c *AccountController) UpdateProfile(ctx *httpctx.Context, req *ProfileRequest) error {
	sub, err := subject(ctx)
	if err != nil {
		return err
	}

	profile := Profile{
		Subject:     sub,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		UpdatedAt:   time.Now().UTC(),
	}

	c.mu.Lock()
	c.profiles[sub] = profile
	c.mu.Unlock()

	ctx.Logger().Info().Str("subject", sub).Msg("profile updated")
	return ctx.WriteJSON(http.StatusOK, profile)
}

func (c *AccountController) DeleteProfile(ctx *httpctx.Context) error {
	target := ctx.Query("subject")
	if target == "" {
		return httpctx.NewStatusError(http.StatusBadRequest, MsgMissingSubject)
	}

	c.mu.Lock()
	_, ok := c.profiles[target]
	delete(c.profiles, target)
	c.mu.Unlock()

	if !ok {
		return httpctx.NewStatusError(http.StatusNotFound, MsgProfileNotFound)
	}
	return ctx.SendOK(MsgProfileDeleted)
}

func subject(ctx *httpctx.Context) (string, error) {
	claims, _ := ctx.Claims()
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", httpctx.NewStatusError(http.StatusBadRequest, MsgNoSubject)
	}
	return sub, nil
}
