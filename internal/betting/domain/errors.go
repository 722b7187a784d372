package domain

import (
	"errors"
	"fmt"
)

// Classes de erro expostas pelo core. A camada HTTP mapeia cada classe
// para o status correspondente (400/404/409/502).
var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrUpstream   = errors.New("upstream provider error")

	ErrInsufficientFunds = fmt.Errorf("%w: insufficient balance", ErrConflict)
)
