package api

import (
	"net/http"

	"tradehub-be/internal/apperr"
	"tradehub-be/internal/auth"
	"tradehub-be/internal/user"

	"github.com/gin-gonic/gin"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string        `json:"token"`
	User  user.Response `json:"user"`
}

func (h *Handler) SignUp(c *gin.Context) {
	var in user.SignUpInput
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	token, u, err := h.svc.Users.SignUp(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	h.setSessionCookie(c, token)
	created(c, sessionResponse{Token: token, User: user.ToResponse(u)})
}

func (h *Handler) SignIn(c *gin.Context) {
	var in signInRequest
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	token, u, err := h.svc.Users.SignIn(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		fail(c, err)
		return
	}
	h.setSessionCookie(c, token)
	ok(c, sessionResponse{Token: token, User: user.ToResponse(u)})
}

func (h *Handler) SignOut(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.AccessTokenCookie, "", -1, "/", "", h.secureCookie, true)
	c.Status(http.StatusNoContent)
}

func (h *Handler) Me(c *gin.Context) {
	a := actor(c)
	if a.IsAnonymous() {
		fail(c, apperr.Unauthenticated())
		return
	}
	u, err := h.svc.Users.SessionUser(c.Request.Context(), auth.ExtractAccessToken(c.Request))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, user.ToResponse(u))
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.AccessTokenCookie, token, int(h.tokenTTL.Seconds()), "/", "", h.secureCookie, true)
}
