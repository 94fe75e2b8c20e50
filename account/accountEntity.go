package account

import (
	"fieldjobs/authority"

	"github.com/fundwit/go-commons/types"
)

type User struct {
	ID         types.ID        `json:"id"`
	Name       string          `json:"name"`
	Role       authority.Role  `json:"role"`
	Phone      string          `json:"phone"`
	Email      string          `json:"email"`
	FirstLogin bool            `json:"firstLogin"`
	CreateTime types.Timestamp `json:"createTime"`
}

type UserCreation struct {
	Name  string         `json:"name" binding:"required,lte=64"`
	Role  authority.Role `json:"role" binding:"required"`
	Phone string         `json:"phone" binding:"omitempty,lte=32"`
	Email string         `json:"email" binding:"omitempty,email"`
}

// UserUpdating leaves nil fields untouched, identity and role never change.
type UserUpdating struct {
	Phone      *string `json:"phone" binding:"omitempty,lte=32"`
	Email      *string `json:"email" binding:"omitempty,email"`
	FirstLogin *bool   `json:"firstLogin"`
}

type UserQuery struct {
	Role string `form:"role"`
}
