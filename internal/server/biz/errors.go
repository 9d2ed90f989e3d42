package biz

import "errors"

var (
	ErrDuplicateOrganizationCode = errors.New("organization code already exists")
	ErrOrganizationNotFound      = errors.New("organization not found")
	ErrUserNotFound              = errors.New("user not found")
	ErrMembershipNotFound        = errors.New("no active membership for this organization")
	ErrInvalidPassword           = errors.New("invalid email or password")
	ErrInvalidJWT                = errors.New("invalid jwt token")
	ErrInternal                  = errors.New("server internal error, please try again later")
)
