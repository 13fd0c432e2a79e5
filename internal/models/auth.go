package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserRole distinguishes the two login populations.
type UserRole string

const (
	RoleStudent  UserRole = "STUDENT"
	RoleEmployee UserRole = "EMPLOYEE"
)

// Identifiable is the capability shared by every account type that can
// authenticate: it yields the stable identity string used as the token
// subject. Students and employees both implement it.
type Identifiable interface {
	EmailID() string
}

// LoginRequest holds credentials for authenticating a user. Login accepts
// an employee email, a student email, or a student card code.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID       string   `json:"id"`
	Identity string   `json:"identity"`
	FullName string   `json:"full_name"`
	Role     UserRole `json:"role"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int64    `json:"expires_in"`
	User        UserInfo `json:"user"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Identity string   `json:"identity"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
