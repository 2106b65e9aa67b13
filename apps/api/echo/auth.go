package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dahire100/FrontierLMS-sub005/core"
)

var (
	nowFunc = time.Now // mockable

	contextTokenKey = "userToken"
)

func newJWTConfig(secretKey string) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(secretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Username     string `json:"username,omitempty"`
	IsAdmin      bool   `json:"is_admin,omitempty"`
}

// NewAdminClaims returns the claims of the configured admin. origIat is kept across refreshes.
func NewAdminClaims(conf *core.Config, origIat ...int64) *Claims {
	now := nowFunc()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   conf.Server.AdminUsername,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Username:     conf.Server.AdminUsername,
		IsAdmin:      true,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(secretKey string, claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

type authApi struct {
	srv *server
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, srv *server) {
	api := authApi{srv: srv}

	g.POST("/login", api.login)
	g.POST("/token-refresh", api.refreshToken, jwt)
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.srv); err != nil {
		return err
	}

	conf := api.srv.Conf
	if data.Username != core.CleanString(conf.Server.AdminUsername, true) {
		return errAuthenticationFailed
	}
	if err := bcrypt.CompareHashAndPassword(api.srv.adminHash, []byte(data.Password)); err != nil {
		return errAuthenticationFailed
	}

	token, err := GenerateToken(conf.Server.SecretKey, NewAdminClaims(conf))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if !claims.IsAdmin || claims.Username != api.srv.Conf.Server.AdminUsername {
		return errHttpForbidden
	}

	token, err := GenerateToken(api.srv.Conf.Server.SecretKey, NewAdminClaims(api.srv.Conf, claims.OrigIssuedAt))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}
)

func (lr *LoginRequest) Validate(srv *server) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return srv.validate.Struct(lr)
}
