package service

import "errors"

var (
	ErrNameInUse          = errors.New("username already in use")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")

	ErrReviewNotFound = errors.New("review not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrNotOwner       = errors.New("not the review owner")

	ErrPrivateProfile = errors.New("profile is private")
	ErrInvalidPasskey = errors.New("invalid admin passkey")
)
