package service

import "internportal/model"

// Actor is the caller identity attached to every core operation. It comes
// from the verified JWT; the services trust it and do no credential checks.
type Actor struct {
	UserID uint
	EmpID  string
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

func (a Actor) IsMentor() bool {
	return a.Role == model.RoleMentor
}

func (a Actor) IsIntern() bool {
	return a.Role == model.RoleIntern
}
