package jwttoken

import (
	authmw "consortium/pkg/platform/middleware/auth"
)

func ToMiddlewareClaims(claims *OperatorClaims) *authmw.OperatorClaims {
	return &authmw.OperatorClaims{
		OperatorID: claims.OperatorID,
		Scopes:     claims.Scopes,
	}
}

// JWTServiceAdapter exposes JWTService as an authmw.JWTValidator.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.OperatorClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
