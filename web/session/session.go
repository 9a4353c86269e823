package session

import (
	"encoding/gob"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/weijue/blog/database/model"
)

const principalKey = "PRINCIPAL"

// CookieName is the name of the session cookie.
const CookieName = "blog-session"

func init() {
	gob.Register(model.Principal{})
}

func SetPrincipal(c *gin.Context, principal *model.Principal) error {
	s := sessions.Default(c)
	s.Set(principalKey, *principal)
	return s.Save()
}

func SetMaxAge(c *gin.Context, maxAge int) error {
	s := sessions.Default(c)
	s.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	})
	return s.Save()
}

func GetPrincipal(c *gin.Context) *model.Principal {
	s := sessions.Default(c)
	if obj := s.Get(principalKey); obj != nil {
		if principal, ok := obj.(model.Principal); ok {
			return &principal
		}
	}
	return nil
}

func IsLogin(c *gin.Context) bool {
	return GetPrincipal(c) != nil
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	if err := s.Save(); err != nil {
		return err
	}
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
	return nil
}
