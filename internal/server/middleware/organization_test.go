package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/facturio/internal/contexts"
	"github.com/facturio/facturio/internal/objects"
	"github.com/facturio/facturio/internal/scopes"
	"github.com/facturio/facturio/internal/server/biz"
	"github.com/facturio/facturio/internal/store/memory"
)

type tenancyFixture struct {
	store  *memory.Store
	router *gin.Engine

	// carrier observed by the probe handler, nil when none was attached.
	observed *contexts.Carrier
}

func newTenancyFixture(t *testing.T, userID *uuid.UUID, config OrganizationConfig) *tenancyFixture {
	t.Helper()

	gin.SetMode(gin.TestMode)

	s := memory.New()
	memberships := biz.NewMembershipService(biz.MembershipServiceParams{Store: s})

	fixture := &tenancyFixture{store: s}

	router := gin.New()

	if userID != nil {
		router.Use(func(c *gin.Context) {
			ctx := contexts.WithAuthentication(c.Request.Context(), contexts.Authentication{UserID: *userID})
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}

	router.Use(WithOrganization(memberships, config))

	probe := func(c *gin.Context) {
		if carrier, ok := contexts.GetCarrier(c.Request.Context()); ok {
			fixture.observed = &carrier
		}

		c.Status(http.StatusOK)
	}
	router.GET("/clients", probe)
	router.GET("/health", probe)

	fixture.router = router

	return fixture
}

func (f *tenancyFixture) get(path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	return w
}

func seedMembership(t *testing.T, s *memory.Store, userID, orgID uuid.UUID, role scopes.Role, isDefault bool) {
	t.Helper()

	require.NoError(t, s.CreateMembership(context.Background(), &objects.Membership{
		ID:             uuid.New(),
		UserID:         userID,
		OrganizationID: orgID,
		Role:           role,
		IsDefault:      isDefault,
		IsActive:       true,
		JoinedAt:       time.Now().UTC(),
	}))
}

func TestWithOrganization(t *testing.T) {
	t.Run("exempt prefix skips resolution", func(t *testing.T) {
		fixture := newTenancyFixture(t, nil, OrganizationConfig{ExemptPrefixes: []string{"/health"}})

		w := fixture.get("/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, fixture.observed)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		fixture := newTenancyFixture(t, nil, OrganizationConfig{})

		w := fixture.get("/clients", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "missing X-Organization-ID header")
	})

	t.Run("blank header is rejected", func(t *testing.T) {
		fixture := newTenancyFixture(t, nil, OrganizationConfig{})

		w := fixture.get("/clients", map[string]string{OrganizationHeader: "   "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "missing X-Organization-ID header")
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		fixture := newTenancyFixture(t, nil, OrganizationConfig{})

		w := fixture.get("/clients", map[string]string{OrganizationHeader: "not-a-uuid"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid X-Organization-ID header")
	})

	t.Run("unauthenticated request carries the organization only", func(t *testing.T) {
		fixture := newTenancyFixture(t, nil, OrganizationConfig{})
		orgID := uuid.New()

		w := fixture.get("/clients", map[string]string{OrganizationHeader: orgID.String()})
		assert.Equal(t, http.StatusOK, w.Code)

		require.NotNil(t, fixture.observed)
		assert.Equal(t, orgID, fixture.observed.OrganizationID)
		assert.Nil(t, fixture.observed.UserID)
	})

	t.Run("member gets role and permissions resolved", func(t *testing.T) {
		userID := uuid.New()
		orgID := uuid.New()

		fixture := newTenancyFixture(t, &userID, OrganizationConfig{})
		seedMembership(t, fixture.store, userID, orgID, scopes.RoleAccountant, true)

		w := fixture.get("/clients", map[string]string{OrganizationHeader: orgID.String()})
		assert.Equal(t, http.StatusOK, w.Code)

		require.NotNil(t, fixture.observed)
		assert.Equal(t, orgID, fixture.observed.OrganizationID)
		require.NotNil(t, fixture.observed.UserID)
		assert.Equal(t, userID, *fixture.observed.UserID)
		assert.Equal(t, scopes.RoleAccountant, fixture.observed.Role)
		assert.True(t, fixture.observed.Permissions.Has(scopes.PermissionWritePayments))
		assert.False(t, fixture.observed.Permissions.Has(scopes.PermissionWriteMembers))
	})

	t.Run("non-member is forbidden", func(t *testing.T) {
		userID := uuid.New()

		fixture := newTenancyFixture(t, &userID, OrganizationConfig{})
		seedMembership(t, fixture.store, userID, uuid.New(), scopes.RoleOwner, true)

		w := fixture.get("/clients", map[string]string{OrganizationHeader: uuid.NewString()})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("authenticated request falls back to the default membership", func(t *testing.T) {
		userID := uuid.New()
		orgID := uuid.New()

		fixture := newTenancyFixture(t, &userID, OrganizationConfig{})
		seedMembership(t, fixture.store, userID, orgID, scopes.RoleOwner, true)

		w := fixture.get("/clients", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		require.NotNil(t, fixture.observed)
		assert.Equal(t, orgID, fixture.observed.OrganizationID)
	})

	t.Run("authenticated user without memberships cannot fall back", func(t *testing.T) {
		userID := uuid.New()

		fixture := newTenancyFixture(t, &userID, OrganizationConfig{})

		w := fixture.get("/clients", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
