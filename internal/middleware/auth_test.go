package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/family-ledger-api/internal/constants"
	apierrors "github.com/yukikurage/family-ledger-api/internal/errors"
	"github.com/yukikurage/family-ledger-api/internal/models"
	"github.com/yukikurage/family-ledger-api/internal/repository"
	"github.com/yukikurage/family-ledger-api/internal/services"
	"github.com/yukikurage/family-ledger-api/internal/testutil"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db     *gorm.DB
	tokens *services.TokenService
	router *gin.Engine
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	tokens := services.NewTokenService("secret", time.Hour)
	authService := services.NewAuthService(repository.NewUserRepository(db), tokens, "123456")

	r := gin.New()
	r.GET("/me", RequireAuth(authService), func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		require.True(t, ok)
		userID, ok := GetUserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "user_id": userID})
	})
	r.GET("/admin", RequireAuth(authService), RequireSystemAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	return authTestEnv{db: db, tokens: tokens, router: r}
}

func (env authTestEnv) get(t *testing.T, path, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(constants.HeaderAuthorization, authorization)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func errorKind(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Kind
}

func TestRequireAuth(t *testing.T) {
	env := setupAuthTestEnv(t)

	user := testutil.CreateUser(t, env.db, "13800000001", "Alice", models.RoleFamilyMember)
	token, _, err := env.tokens.Issue(user.ID)
	require.NoError(t, err)

	w := env.get(t, "/me", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"user_id":1}`, w.Body.String())

	w = env.get(t, "/me", "bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	for _, header := range []string{"", token, "Basic " + token, "Bearer ", "Bearer not-a-jwt"} {
		w = env.get(t, "/me", header)
		require.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.Equal(t, apierrors.ErrCodeUnauthorized, errorKind(t, w))
	}
}

func TestRequireAuth_DisabledUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	user := testutil.CreateUser(t, env.db, "13800000001", "Alice", models.RoleFamilyMember)
	token, _, err := env.tokens.Issue(user.ID)
	require.NoError(t, err)
	require.NoError(t, env.db.Model(user).Update("status", models.LifecycleInactive).Error)

	w := env.get(t, "/me", "Bearer "+token)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apierrors.ErrCodeUserDisabled, errorKind(t, w))
}

func TestRequireSystemAdmin(t *testing.T) {
	env := setupAuthTestEnv(t)

	member := testutil.CreateUser(t, env.db, "13800000001", "Alice", models.RoleFamilyMember)
	familyAdmin := testutil.CreateUser(t, env.db, "13800000002", "Bob", models.RoleFamilyAdmin)
	root := testutil.CreateUser(t, env.db, "admin", "Root", models.RoleSystemAdmin)

	for _, user := range []*models.User{member, familyAdmin} {
		token, _, err := env.tokens.Issue(user.ID)
		require.NoError(t, err)

		w := env.get(t, "/admin", "Bearer "+token)
		require.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, apierrors.ErrCodeForbidden, errorKind(t, w))
	}

	token, _, err := env.tokens.Issue(root.ID)
	require.NoError(t, err)
	w := env.get(t, "/admin", "Bearer "+token)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestBearerToken(t *testing.T) {
	token, ok := bearerToken("  Bearer   abc.def.ghi ")
	require.True(t, ok)
	assert.Equal(t, "abc.def.ghi", token)

	_, ok = bearerToken("Bearer")
	assert.False(t, ok)
}
