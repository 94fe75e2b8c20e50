package session

import (
	"context"
	"fieldjobs/authority"
	"time"

	"github.com/fundwit/go-commons/types"
)

// Session is the actor of every command: who acts, with which role.
type Session struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`

	SigningTime time.Time       `json:"-"`
	Context     context.Context `json:"-"`
}

type Identity struct {
	ID   types.ID       `json:"id"`
	Name string         `json:"name"`
	Role authority.Role `json:"role"`
}

func (s *Session) IsBoss() bool {
	return s != nil && s.Identity.Role == authority.RoleBoss
}

func (s *Session) Clone() Session {
	return Session{
		Token:       s.Token,
		Identity:    s.Identity,
		SigningTime: s.SigningTime,
		Context:     s.Context,
	}
}

// Ctx never returns nil.
func (s *Session) Ctx() context.Context {
	if s == nil || s.Context == nil {
		return context.Background()
	}
	return s.Context
}
