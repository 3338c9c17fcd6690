package service

import (
	"errors"
	"fmt"
)

// Ошибки управления доступом
var (
	ErrUnauthorized    = errors.New("caller is not the super admin")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAlreadyAdmin    = errors.New("user is already an admin")
	ErrNotAdmin        = errors.New("user is not an admin")

	ErrSuperAdminImmutable = fmt.Errorf("%w: super admin cannot be removed", ErrInvalidArgument)
)
