package entity

import "errors"

var (
	ErrLeadNotFound = errors.New("lead not found")

	// Violações de unicidade vindas do banco, separadas por constraint
	// para que o caller saiba o que pode ser retentado.
	ErrDuplicateEmail = errors.New("email already exists")
	ErrDuplicateToken = errors.New("confirmation token already exists")
)
