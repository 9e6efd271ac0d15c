package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log/level"
	"github.com/go-playground/validator/v10"
	"github.com/vuzon/vuzon/api/interceptors"
	"github.com/vuzon/vuzon/config"
	"github.com/vuzon/vuzon/global"
	"github.com/vuzon/vuzon/services"
	"github.com/vuzon/vuzon/types"
	"golang.org/x/crypto/bcrypt"
)

type AuthApi struct {
	conf         config.Config
	sessions     *services.SessionService
	validate     *validator.Validate
	passwordHash []byte
}

func NewAuthApi(conf config.Config, sessions *services.SessionService) *AuthApi {
	a := &AuthApi{
		conf:     conf,
		sessions: sessions,
		validate: newValidator(),
	}
	if conf.AuthPass != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(conf.AuthPass), bcrypt.DefaultCost)
		if err != nil {
			level.Error(global.Logger).Log("msg", "failed to hash admin password", "err", err)
			panic(err)
		}
		a.passwordHash = hash
	}
	return a
}

// Login validates credentials and starts an authenticated session
// @Summary Login with the configured admin credentials
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} types.OutputSuccess
// @Failure 401 {object} api.ApiError "invalid credentials"
// @Failure 500 {object} api.ApiError "credentials not configured"
// @Router /api/login [post]
func (a *AuthApi) Login(c *gin.Context) {
	if a.conf.AuthUser == "" || a.passwordHash == nil {
		ApiErrorf(c, http.StatusInternalServerError, "%s", types.ErrCredentialsNotConfigured.Error())
		return
	}

	var input types.InputLogin
	if err := c.ShouldBindJSON(&input); err != nil {
		ApiErrorf(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := a.validate.Struct(input); err != nil {
		ApiErrorf(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if input.Username != a.conf.AuthUser ||
		bcrypt.CompareHashAndPassword(a.passwordHash, []byte(input.Password)) != nil {
		ApiErrorf(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token := a.sessions.Create()
	a.setSessionCookie(c, token, int(a.sessions.TTL().Seconds()))
	c.JSON(http.StatusOK, types.OutputSuccess{Success: true})
}

// Logout destroys the session and clears the cookie
// @Summary Logout
// @Tags Auth
// @Produce json
// @Success 200 {object} types.OutputSuccess
// @Router /api/logout [post]
func (a *AuthApi) Logout(c *gin.Context) {
	if token, err := c.Cookie(interceptors.SessionCookieName); err == nil {
		a.sessions.Destroy(token)
	}
	a.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, types.OutputSuccess{Success: true})
}

// Me returns the operator profile derived from configuration
// @Summary Current operator profile
// @Tags Auth
// @Produce json
// @Success 200 {object} types.OutputProfile
// @Router /api/me [get]
func (a *AuthApi) Me(c *gin.Context) {
	email := a.conf.AuthUser
	if email == "" {
		email = "admin"
	}
	c.JSON(http.StatusOK, types.OutputProfile{Email: email, RootDomain: a.conf.RootDomain})
}

func (a *AuthApi) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	secure := a.conf.Mode == "release"
	c.SetCookie(interceptors.SessionCookieName, value, maxAge, "/", "", secure, true)
}
