package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/userhub/identity-api/internal/api/middleware"
	"github.com/userhub/identity-api/internal/core/domain"
	"github.com/userhub/identity-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	refreshFn  func(principal domain.Principal) (string, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) RefreshToken(principal domain.Principal) (string, error) {
	return s.refreshFn(principal)
}

type stubUserService struct {
	findOneFn func(ctx context.Context, id string) (*domain.User, error)
}

func (s *stubUserService) FindAll(context.Context) ([]*domain.User, error) { return nil, nil }
func (s *stubUserService) FindOne(ctx context.Context, id string) (*domain.User, error) {
	return s.findOneFn(ctx, id)
}
func (s *stubUserService) Update(context.Context, string, ports.UpdateUserInput) (*domain.User, error) {
	return nil, nil
}
func (s *stubUserService) Remove(context.Context, string) error { return nil }

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func testUser() *domain.User {
	return &domain.User{
		ID:           "id-1",
		Username:     "bob",
		Email:        "bob@x.com",
		FirstName:    "Bob",
		LastName:     "Builder",
		PasswordHash: "$2a$04$secret-hash",
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (*domain.User, error) {
			if input.Username != "bob" || input.Email != "bob@x.com" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return testUser(), nil
		},
	}, nil)

	c, rec := jsonRequest(e, http.MethodPost, "/auth/register",
		`{"username":"bob","firstName":"Bob","lastName":"Builder","email":"bob@x.com","password":"longenoughpass"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "bob" || resp["role"] != domain.RoleUser {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	body := rec.Body.String()
	if strings.Contains(body, "hash") || strings.Contains(body, "password") || strings.Contains(body, "$2a$") {
		t.Fatalf("response leaks password material: %s", body)
	}
}

func TestAuthHandler_Register_ValidationFailure(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service must not be called on invalid payload")
			return nil, nil
		},
	}, nil)

	cases := []string{
		`{"username":"ab","firstName":"Bob","lastName":"Builder","email":"bob@x.com","password":"longenoughpass"}`,
		`{"username":"bob","firstName":"Bob","lastName":"Builder","email":"not-an-email","password":"longenoughpass"}`,
		`{"username":"bob","firstName":"Bob","lastName":"Builder","email":"bob@x.com","password":"short"}`,
		`{"username":"bob","firstName":"Bob","lastName":"Builder","email":"bob@x.com","password":"longenoughpass","role":"superuser"}`,
	}
	for _, body := range cases {
		c, _ := jsonRequest(e, http.MethodPost, "/auth/register", body)
		err := h.Register(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %v", body, err)
		}
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrDuplicateUsername
		},
	}, nil)

	c, _ := jsonRequest(e, http.MethodPost, "/auth/register",
		`{"username":"bob","firstName":"Bob","lastName":"Builder","email":"bob@x.com","password":"longenoughpass"}`)

	if err := h.Register(c); !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername to propagate, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(_ context.Context, username, password string) (*ports.LoginResult, error) {
			if username != "bob" || password != "longenoughpass" {
				t.Fatalf("unexpected credentials: %s/%s", username, password)
			}
			return &ports.LoginResult{AccessToken: "signed-token", User: testUser()}, nil
		},
	}, nil)

	c, rec := jsonRequest(e, http.MethodPost, "/auth/login",
		`{"username":"bob","password":"longenoughpass"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		AccessToken string         `json:"access_token"`
		User        map[string]any `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.AccessToken != "signed-token" {
		t.Fatalf("missing access token: %+v", resp)
	}
	for _, field := range []string{"id", "username", "email", "role", "firstName", "lastName"} {
		if _, ok := resp.User[field]; !ok {
			t.Fatalf("login user payload missing %q: %+v", field, resp.User)
		}
	}
	if strings.Contains(rec.Body.String(), "$2a$") {
		t.Fatalf("response leaks password hash")
	}
}

func TestAuthHandler_Login_InvalidCredentialsPropagate(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}, nil)

	c, _ := jsonRequest(e, http.MethodPost, "/auth/login", `{"username":"bob","password":"wrong"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Profile(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{}, &stubUserService{
		findOneFn: func(_ context.Context, id string) (*domain.User, error) {
			if id != "id-1" {
				t.Fatalf("unexpected id: %s", id)
			}
			return testUser(), nil
		},
	})

	c, rec := jsonRequest(e, http.MethodGet, "/auth/profile", "")
	c.Set(middleware.PrincipalKey, domain.Principal{ID: "id-1", Username: "bob", Role: domain.RoleUser})

	if err := h.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "$2a$") {
		t.Fatalf("profile leaks password hash")
	}
}

func TestAuthHandler_Profile_WithoutPrincipal(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{}, &stubUserService{})

	c, _ := jsonRequest(e, http.MethodGet, "/auth/profile", "")
	err := h.Profile(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without principal, got %v", err)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{
		refreshFn: func(principal domain.Principal) (string, error) {
			if principal.Username != "bob" {
				t.Fatalf("unexpected principal: %+v", principal)
			}
			return "fresh-token", nil
		},
	}, nil)

	c, rec := jsonRequest(e, http.MethodPost, "/auth/refresh", "")
	c.Set(middleware.PrincipalKey, domain.Principal{ID: "id-1", Username: "bob", Role: domain.RoleUser})

	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "fresh-token" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Health(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{}, nil)

	c, rec := jsonRequest(e, http.MethodGet, "/auth/health", "")
	if err := h.Health(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "ok" {
		t.Fatalf("unexpected status: %+v", resp)
	}
	if _, err := time.Parse(time.RFC3339, resp["timestamp"]); err != nil {
		t.Fatalf("timestamp not RFC3339: %v", err)
	}
}
