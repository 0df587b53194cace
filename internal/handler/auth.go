package handler

import (
	"context"  // provides context with cancellation for DB calls
	"errors"   // sentinel error comparisons
	"net/http" // HTTP status codes and cookie primitives
	"net/mail" // RFC 5322 address parsing for email validation
	"regexp"   // username format check
	"strings"  // string manipulation utilities
	"time"     // timeouts for DB calls and cookie lifetime

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/mouradf/it-asset-tracker/internal/middleware"
	"github.com/mouradf/it-asset-tracker/internal/repository"
	"github.com/mouradf/it-asset-tracker/internal/session"
	"github.com/mouradf/it-asset-tracker/internal/utils"
)

// minPasswordLen is the minimum accepted password length.
const minPasswordLen = 6

// usernameRe matches the username format the registration page enforces.
var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{4,20}$`)

// AuthHandler bundles dependencies for identity endpoints.
type AuthHandler struct {
	Users      *repository.UserRepo
	Sessions   session.Store
	Secret     string        // cookie signing secret
	TTL        time.Duration // fixed session lifetime
	BcryptCost int
}

func NewAuthHandler(users *repository.UserRepo, sessions session.Store, secret string, ttl time.Duration, bcryptCost int) *AuthHandler {
	return &AuthHandler{Users: users, Sessions: sessions, Secret: secret, TTL: ttl, BcryptCost: bcryptCost}
}

// ----- DTOs -----

type registerReq struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}
type loginReq struct {
	Username string `json:"username"` // email or username
	Password string `json:"password"`
}

type userPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func publicUser(u repository.User) userPart {
	return userPart{ID: u.ID, Username: u.Username, FullName: u.FullName, Email: u.Email, Role: u.Role}
}

// Register: validate, create the user with a one-way password hash, open a
// session immediately and answer with a redirect target for the page script.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if req.FullName == "" || req.Email == "" || req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all fields are required"})
	}
	if len(req.Password) < minPasswordLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email address"})
	}
	if !usernameRe.MatchString(req.Username) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username must be 4-20 letters, digits or underscores"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u := repository.User{FullName: req.FullName, Email: req.Email, Username: req.Username}
	if err := h.Users.Create(ctx, &u, req.Password, h.BcryptCost); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already registered"})
		case errors.Is(err, repository.ErrUsernameExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "username already taken"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create user"})
		}
	}

	if err := h.openSession(c, ctx, u); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not establish session"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": publicUser(u), "redirect": "/index.html"})
}

// Login: the identifier may match either email or username. The error for
// an unknown user and for a wrong password is deliberately identical so the
// endpoint cannot be used to enumerate accounts.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByIdentifier(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := h.Users.TouchLastLogin(ctx, u.ID); err != nil {
		c.Logger().Errorf("touch last_login: %v", err)
	}
	if err := h.openSession(c, ctx, u); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not establish session"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": publicUser(u), "redirect": "/index.html"})
}

// Logout destroys the session unconditionally and clears the cookie.
// Logging out an anonymous caller is a success, making the endpoint
// idempotent.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.CookieName); err == nil && cookie.Value != "" {
		if token, ok := utils.VerifySignedToken(h.Secret, cookie.Value); ok {
			_ = h.Sessions.Destroy(c.Request().Context(), token)
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out", "redirect": "/login.html"})
}

// Session reports whether the caller holds an authenticated session and, if
// so, the identity claims. Never the password hash.
func (h *AuthHandler) Session(c echo.Context) error {
	id, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{"authenticated": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"authenticated": true, "user": id})
}

// Profile returns the caller's identity claims; protected by RequireSession.
func (h *AuthHandler) Profile(c echo.Context) error {
	id, _ := middleware.CurrentUser(c)
	return c.JSON(http.StatusOK, echo.Map{"user": id})
}

// openSession stores the identity server-side and sets the signed cookie.
func (h *AuthHandler) openSession(c echo.Context, ctx context.Context, u repository.User) error {
	token, err := h.Sessions.Create(ctx, session.Identity{
		UserID:   u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
	})
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    utils.SignToken(h.Secret, token),
		Path:     "/",
		MaxAge:   int(h.TTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
