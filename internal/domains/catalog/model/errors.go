package model

import "errors"

var (
	ErrPlanAlreadyExists = errors.New("plan already exists")
	ErrDatabaseQuery     = errors.New("database query error")
)
