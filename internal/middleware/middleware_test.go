package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/projecthub-dashboard/internal/errs"
	"github.com/GregMSThompson/projecthub-dashboard/internal/models"
	"github.com/GregMSThompson/projecthub-dashboard/internal/response"
	"github.com/GregMSThompson/projecthub-dashboard/pkg/helpers"
	"github.com/GregMSThompson/projecthub-dashboard/pkg/logger"
)

type stubVerifier struct {
	token *auth.Token
	err   error
	got   string
}

func (s *stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	s.got = idToken
	return s.token, s.err
}

type stubResolver struct {
	id  models.Identity
	err error
}

func (s *stubResolver) Resolve(_ context.Context, uid, role, tenant string) (models.Identity, error) {
	if s.err != nil {
		return models.Identity{}, s.err
	}
	if s.id.UserID == "" {
		return models.Identity{UserID: uid, Role: models.Role(role), TenantDomain: tenant}, nil
	}
	return s.id, nil
}

func capture(t *testing.T, out *Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		require.True(t, ok)
		*out = p
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestFirebaseAuthStoresClaims(t *testing.T) {
	v := &stubVerifier{token: &auth.Token{UID: "uid-1", Claims: map[string]any{"role": "advisor", "tenant": "acme.edu"}}}
	var got Principal
	h := NewMiddleware(v).FirebaseAuth(capture(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "tok", v.got)
	assert.Equal(t, Principal{UID: "uid-1", Role: "advisor", Tenant: "acme.edu"}, got)
}

func TestFirebaseAuthRejects(t *testing.T) {
	cases := []struct {
		name   string
		header string
		err    error
	}{
		{"missing header", "", nil},
		{"wrong scheme", "Basic abc", nil},
		{"bad token", "Bearer tok", errors.New("expired")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := &stubVerifier{err: tc.err}
			h := NewMiddleware(v).FirebaseAuth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Fatal("next handler called")
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestDevAuth(t *testing.T) {
	var got Principal
	want := Principal{UID: "dev", Role: "student"}
	DevAuth(want)(capture(t, &got)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, want, got)
}

func TestIdentityMiddleware(t *testing.T) {
	resp := response.New(slog.New(logger.NewTestHandler(slog.LevelDebug)))

	t.Run("resolved", func(t *testing.T) {
		m := NewIdentityMiddleware(&stubResolver{}, resp)
		var got models.Identity
		h := m.Identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			require.True(t, ok)
			got = id
		}))
		ctx := WithPrincipal(helpers.TestCtx(), Principal{UID: "u1", Role: "student", Tenant: "acme"})
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
		assert.Equal(t, models.Identity{UserID: "u1", Role: models.RoleStudent, TenantDomain: "acme"}, got)
	})

	t.Run("forbidden", func(t *testing.T) {
		m := NewIdentityMiddleware(&stubResolver{err: errs.NewForbiddenError("no role")}, resp)
		h := m.Identity(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("next handler called")
		}))
		ctx := WithPrincipal(helpers.TestCtx(), Principal{UID: "u1"})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("no principal", func(t *testing.T) {
		m := NewIdentityMiddleware(&stubResolver{}, resp)
		rr := httptest.NewRecorder()
		m.Identity(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(helpers.TestCtx()))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
