package jwttoken

import (
	"parkly/internal/platform/middleware"
)

// JWTServiceAdapter bridges JWTService to the middleware's validator
// interface so the middleware package stays free of JWT internals.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.JWTClaims{OwnerID: claims.OwnerID}, nil
}
