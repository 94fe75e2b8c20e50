package testinfra

import (
	"context"
	"fieldjobs/authority"
	"fieldjobs/session"
	"io/ioutil"
	"net/http"
	"net/http/httptest"

	"github.com/fundwit/go-commons/types"
)

// BuildSession build an actor session
func BuildSession(uid types.ID, role authority.Role) *session.Session {
	return &session.Session{
		Token:    "token_" + uid.String(),
		Identity: session.Identity{ID: uid, Name: "user" + uid.String(), Role: role},
		Context:  context.Background(),
	}
}

func ExecuteRequest(req *http.Request, handler http.Handler) (int, string, *http.Response) {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	resp := w.Result()
	defer func() {
		_ = resp.Body.Close()
	}()
	bodyBytes, _ := ioutil.ReadAll(resp.Body)
	return resp.StatusCode, string(bodyBytes), resp
}
