package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/freeslots/internal/auth"
	"github.com/mmynk/freeslots/internal/middleware"
	"github.com/mmynk/freeslots/internal/models"
	"github.com/mmynk/freeslots/internal/resolver"
	"github.com/mmynk/freeslots/internal/storage/sqlite"
	"github.com/mmynk/freeslots/pkg/api/apiconnect"
)

const testSecret = "test-secret"

// testEnv is a running server with every service mounted the way main does it.
type testEnv struct {
	store        *sqlite.SQLiteStore
	jwt          *auth.JWTManager
	auth         apiconnect.AuthServiceClient
	groups       apiconnect.GroupServiceClient
	availability apiconnect.AvailabilityServiceClient
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "freeslots-service-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager(testSecret, time.Hour)
	res := resolver.New(store, resolver.WithLogger(logger))

	authSvc := NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, logger)
	groupSvc := NewGroupService(store)
	availabilitySvc := NewAvailabilityService(store, res)

	public := connect.WithInterceptors(middleware.OptionalAuth(jwtManager))
	protected := connect.WithInterceptors(middleware.RequireAuth(jwtManager))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(authSvc, public))
	mux.Handle(apiconnect.NewGroupServiceHandler(groupSvc, protected))
	mux.Handle(apiconnect.NewAvailabilityServiceHandler(availabilitySvc, protected))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		store:        store,
		jwt:          jwtManager,
		auth:         apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		groups:       apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		availability: apiconnect.NewAvailabilityServiceClient(http.DefaultClient, server.URL),
	}
}

// testUser is a stored account together with a valid bearer token.
type testUser struct {
	*models.User
	token string
}

func (e *testEnv) newUser(t *testing.T, email, name string) *testUser {
	t.Helper()

	user := models.NewUser(email, name, "unused")
	if err := e.store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", email, err)
	}
	token, err := e.jwt.Generate(user)
	if err != nil {
		t.Fatalf("Generate token failed: %v", err)
	}
	return &testUser{User: user, token: token}
}

// as builds a request authenticated as u.
func as[T any](u *testUser, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+u.token)
	return req
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("code: expected %v, got %v (%v)", want, got, err)
	}
}
