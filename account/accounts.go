package account

import (
	"errors"
	"fieldjobs/authority"
	"fieldjobs/bizerror"
	"fieldjobs/common"
	"fieldjobs/session"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
)

var userIdWorker = common.NewIdWorker()

// Directory keeps users in memory, one entry per login name.
type Directory struct {
	mu     sync.RWMutex
	byID   map[types.ID]*User
	byName map[string]types.ID
	now    func() types.Timestamp
}

func NewDirectory() *Directory {
	return &Directory{byID: map[types.ID]*User{}, byName: map[string]types.ID{}, now: types.CurrentTimestamp}
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CreateUser is a manager action, the new user logs in for the first time later.
func (d *Directory) CreateUser(c *UserCreation, sec *session.Session) (*User, error) {
	if !sec.IsBoss() {
		return nil, bizerror.ErrForbidden
	}
	role, ok := authority.ParseRole(string(c.Role))
	if !ok {
		return nil, &bizerror.ErrBadParam{Cause: fmt.Errorf("unknown role %q", c.Role)}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, found := d.byName[nameKey(c.Name)]; found {
		return nil, &bizerror.ErrBadParam{Cause: fmt.Errorf("user %s already exists", c.Name)}
	}
	u := d.insert(strings.TrimSpace(c.Name), role)
	u.Phone, u.Email = c.Phone, c.Email
	logrus.WithFields(logrus.Fields{"userId": u.ID, "role": u.Role, "actor": sec.Identity.ID}).Info("user created")
	return copyUser(u), nil
}

// UpdateUser changes contact fields and the first-login flag, of oneself or by a manager.
func (d *Directory) UpdateUser(userId types.ID, c *UserUpdating, sec *session.Session) (*User, error) {
	if !sec.IsBoss() && sec.Identity.ID != userId {
		return nil, bizerror.ErrForbidden
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	u, found := d.byID[userId]
	if !found {
		return nil, bizerror.Reason(bizerror.ErrNotFound, "user not found")
	}
	if c.Phone != nil {
		u.Phone = *c.Phone
	}
	if c.Email != nil {
		u.Email = *c.Email
	}
	if c.FirstLogin != nil {
		u.FirstLogin = *c.FirstLogin
	}
	return copyUser(u), nil
}

func (d *Directory) GetUser(userId types.ID) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, found := d.byID[userId]
	if !found {
		return nil, bizerror.Reason(bizerror.ErrNotFound, "user not found")
	}
	return copyUser(u), nil
}

// GetUsersByRole lists users ordered by name, an empty role lists everyone.
func (d *Directory) GetUsersByRole(role authority.Role) []User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	users := []User{}
	for _, u := range d.byID {
		if role == "" || u.Role == role {
			users = append(users, *u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Name < users[j].Name
	})
	return users
}

// FindOrCreate resolves a login name, creating the user on demand. Known users keep their
// stored role. A new user gets the boss role only while no boss exists, later bosses come
// from CreateUser.
func (d *Directory) FindOrCreate(name string, role authority.Role) (*User, bool, error) {
	if strings.TrimSpace(name) == "" {
		return nil, false, &bizerror.ErrBadParam{Cause: errors.New("name is required")}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, found := d.byName[nameKey(name)]; found {
		return copyUser(d.byID[id]), false, nil
	}
	if !role.Valid() || (role == authority.RoleBoss && d.hasBoss()) {
		role = authority.RoleTech
	}
	u := d.insert(strings.TrimSpace(name), role)
	logrus.WithFields(logrus.Fields{"userId": u.ID, "role": u.Role}).Info("user created at login")
	return copyUser(u), true, nil
}

// ValidateTechs fails unless every id belongs to a technician.
func (d *Directory) ValidateTechs(ids []types.ID) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, id := range ids {
		u, found := d.byID[id]
		if !found {
			return &bizerror.ErrBadParam{Cause: fmt.Errorf("user %s not found", id)}
		}
		if u.Role != authority.RoleTech {
			return &bizerror.ErrBadParam{Cause: fmt.Errorf("user %s is not a technician", id)}
		}
	}
	return nil
}

func (d *Directory) insert(name string, role authority.Role) *User {
	u := &User{ID: common.NextId(userIdWorker), Name: name, Role: role, FirstLogin: true, CreateTime: d.now()}
	d.byID[u.ID] = u
	d.byName[nameKey(name)] = u.ID
	return u
}

func (d *Directory) hasBoss() bool {
	for _, u := range d.byID {
		if u.Role == authority.RoleBoss {
			return true
		}
	}
	return false
}

func copyUser(u *User) *User {
	c := *u
	return &c
}
