package service

import (
	"errors"

	"github.com/sgemaster/sge-backend/internal/api"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = api.ErrInvalidInput
	ErrUnavailable      = errors.New("service unavailable")
)
