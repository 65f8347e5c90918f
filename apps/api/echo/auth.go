package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/edumanage/core"
	"github.com/trezcool/edumanage/core/user"
)

const (
	tokenContextKey = "userToken"
	tokenAudience   = "EduManage Dashboard"
)

// Claims represents the authorization claims transmitted via a JWT.
// Temporary users are never stored, so the token carries the whole session user.
type Claims struct {
	jwt.StandardClaims
	Name   string    `json:"name,omitempty"`
	Email  string    `json:"email,omitempty"`
	Role   user.Role `json:"role,omitempty"`
	Avatar string    `json:"avatar,omitempty"`
	Course string    `json:"course,omitempty"`
}

func (c Claims) User() user.User {
	return user.User{
		ID:                user.ID(c.Subject),
		Name:              c.Name,
		Email:             c.Email,
		Role:              c.Role,
		Avatar:            c.Avatar,
		CourseOrExpertise: c.Course,
	}
}

type authenticator struct {
	conf      *core.Config
	jwtConfig middleware.JWTConfig
}

func newAuthenticator(conf *core.Config) *authenticator {
	return &authenticator{
		conf: conf,
		jwtConfig: middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    tokenContextKey,
			Claims:        new(Claims),
		},
	}
}

func (a *authenticator) middleware() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(a.jwtConfig)
}

func (a *authenticator) userClaims(usr user.User) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Issuer:    a.conf.AppName,
			Subject:   string(usr.ID),
			Audience:  tokenAudience,
			ExpiresAt: now.Add(a.conf.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:   usr.Name,
		Email:  usr.Email,
		Role:   usr.Role,
		Avatar: usr.Avatar,
		Course: usr.CourseOrExpertise,
	}
}

// generateToken returns a signed JWT representing usr.
func (a *authenticator) generateToken(usr user.User) (string, error) {
	method := jwt.GetSigningMethod(a.jwtConfig.SigningMethod)
	token := jwt.NewWithClaims(method, a.userClaims(usr))

	ss, err := token.SignedString(a.jwtConfig.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextUser(ctx echo.Context) (user.User, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.User{}, err
	}
	return claims.User(), nil
}
