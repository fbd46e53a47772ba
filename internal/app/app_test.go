package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arnavshah/duty-roster-go/internal/config"
	"github.com/arnavshah/duty-roster-go/pkg/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewRouter(t *testing.T) {
	auth.PasswordCost = bcrypt.MinCost
	r, err := NewRouter(&config.AppConfig{
		DataPath:        ":memory:",
		JWTSecret:       "jwt",
		APIMasterSecret: "master",
		AdminUsername:   "admin",
		AdminPassword:   "admin123",
		GinMode:         gin.TestMode,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
