//go:build unit

package middleware_test

import (
	"net/http"
	"testing"

	"garage-booking/internal/domain/user"
	"garage-booking/internal/handler/middleware"
	"garage-booking/internal/pkg/config"
	"garage-booking/internal/pkg/cookie"
	"garage-booking/internal/pkg/jwt"
	"garage-booking/internal/usecase"
	"garage-booking/tests/common/authtest"
	"garage-booking/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type AuthMiddlewareTestSuite struct {
	suite.Suite
	router *gin.Engine
	tokens *authtest.JWTHelper
}

func (s *AuthMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	cfg := config.NewTestConfig()
	s.tokens = authtest.NewJWTHelper(cfg.JWT)

	validator := usecase.NewTokenValidator(jwt.NewService(cfg.JWT.Secret, 0))
	auth := middleware.NewAuthMiddleware(validator)

	whoami := func(c *gin.Context) {
		id, _ := middleware.GetUserID(c)
		role, _ := middleware.GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.String(), "role": role.String()})
	}

	s.router = gin.New()
	s.router.GET("/me", auth.RequireAuth(), whoami)
	s.router.GET("/staff", auth.RequireAuth(), auth.RequireRoleAtLeast(user.RoleStaff), whoami)
	s.router.GET("/misconfigured", auth.RequireRoleAtLeast(user.RoleStaff), whoami)
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}

func (s *AuthMiddlewareTestSuite) TestRequireAuth() {
	userID := uuid.New()

	s.Run("bearer token sets the identity", func() {
		token := s.tokens.GenerateToken(s.T(), userID, user.RoleCustomer)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/me", nil, token)

		var body map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(userID.String(), body["user_id"])
		s.Equal("customer", body["role"])
	})

	s.Run("cookie token is accepted", func() {
		token := s.tokens.GenerateToken(s.T(), userID, user.RoleStaff)
		rec := httptest.PerformRequestWithCookies(s.T(), s.router, http.MethodGet, "/me", nil,
			[]*http.Cookie{{Name: cookie.AccessTokenCookieName, Value: token}}, "")

		var body map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("staff", body["role"])
	})

	s.Run("missing token is rejected", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/me", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("expired token is rejected", func() {
		token := s.tokens.CreateExpiredToken(s.T(), userID, user.RoleCustomer)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/me", nil, token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	s.Run("garbage token is rejected", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/me", nil, "not-a-jwt")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired token")
	})
}

func (s *AuthMiddlewareTestSuite) TestRequireRoleAtLeast() {
	cases := []struct {
		role       user.Role
		wantStatus int
	}{
		{user.RoleCustomer, http.StatusForbidden},
		{user.RoleStaff, http.StatusOK},
		{user.RoleAdmin, http.StatusOK},
	}
	for _, tc := range cases {
		s.Run(tc.role.String(), func() {
			token := s.tokens.GenerateToken(s.T(), uuid.New(), tc.role)
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/staff", nil, token)
			s.Equal(tc.wantStatus, rec.Code, rec.Body.String())
		})
	}

	s.Run("without RequireAuth the route fails closed", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/misconfigured", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}
