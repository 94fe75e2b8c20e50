package sessions_test

import (
	"encoding/json"
	"fieldjobs/account"
	"fieldjobs/authority"
	"fieldjobs/bizerror"
	"fieldjobs/session"
	"fieldjobs/sessions"
	"fieldjobs/testinfra"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func TestSessionsRestAPI(t *testing.T) {
	RegisterTestingT(t)

	d := account.NewDirectory()
	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	sessions.RegisterSessionsHandler(router, d)
	sessions.RegisterSessionHandler(router, session.SimpleAuthFilter())

	t.Run("should reject empty credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, sessions.PathSessions, strings.NewReader(`{"name":"ann"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param",
			"message":"Key: 'LoginRequest.Password' Error:Field validation for 'Password' failed on the 'required' tag","data":null}`))
	})

	t.Run("should create users on first login and reuse them later", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, sessions.PathSessions, strings.NewReader(`{"name":"max","password":"x","role":"boss"}`))
		status, body, resp := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		var login sessions.LoginResponse
		Expect(json.Unmarshal([]byte(body), &login)).To(BeNil())
		Expect(login.Created).To(BeTrue())
		Expect(login.Identity.Role).To(Equal(authority.RoleBoss))
		Expect(login.Token).ToNot(BeEmpty())

		cookies := resp.Cookies()
		Expect(cookies).To(HaveLen(1))
		Expect(cookies[0].Name).To(Equal(session.KeySecToken))
		Expect(cookies[0].Value).To(Equal(login.Token))
		_, found := session.TokenCache.Get(login.Token)
		Expect(found).To(BeTrue())

		req = httptest.NewRequest(http.MethodPost, sessions.PathSessions, strings.NewReader(`{"name":"max","password":"y","role":"tech"}`))
		_, body, _ = testinfra.ExecuteRequest(req, router)
		var again sessions.LoginResponse
		Expect(json.Unmarshal([]byte(body), &again)).To(BeNil())
		Expect(again.Created).To(BeFalse())
		Expect(again.Identity.ID).To(Equal(login.Identity.ID))
		Expect(again.Identity.Role).To(Equal(authority.RoleBoss))
		Expect(d.GetUsersByRole("")).To(HaveLen(1))

		req = httptest.NewRequest(http.MethodGet, sessions.PathSession, nil)
		req.AddCookie(&http.Cookie{Name: session.KeySecToken, Value: login.Token})
		status, body, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`{"token":"` + login.Token + `","identity":{"id":"` + login.Identity.ID.String() +
			`","name":"max","role":"boss"}}`))
	})

	t.Run("should not let a later login claim the boss role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, sessions.PathSessions, strings.NewReader(`{"name":"eve","password":"x","role":"boss"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		var login sessions.LoginResponse
		Expect(json.Unmarshal([]byte(body), &login)).To(BeNil())
		Expect(login.Created).To(BeTrue())
		Expect(login.Identity.Role).To(Equal(authority.RoleTech))
	})

	t.Run("should drop the token at logout", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, sessions.PathSessions, strings.NewReader(`{"name":"ann","password":"x"}`))
		_, body, _ := testinfra.ExecuteRequest(req, router)
		var login sessions.LoginResponse
		Expect(json.Unmarshal([]byte(body), &login)).To(BeNil())
		Expect(login.Identity.Role).To(Equal(authority.RoleTech))

		req = httptest.NewRequest(http.MethodDelete, sessions.PathSessions, nil)
		req.AddCookie(&http.Cookie{Name: session.KeySecToken, Value: login.Token})
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNoContent))
		_, found := session.TokenCache.Get(login.Token)
		Expect(found).To(BeFalse())

		req = httptest.NewRequest(http.MethodGet, sessions.PathSession, nil)
		req.AddCookie(&http.Cookie{Name: session.KeySecToken, Value: login.Token})
		status, _, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusUnauthorized))
	})
}
