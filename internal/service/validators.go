package service

import (
	"fmt"
	"net/mail"
	"unicode/utf8"
)

const (
	usernameMinLen = 2
	usernameMaxLen = 15
	postTitleMax   = 100
)

// ValidateUsername checks the username length bounds, counted in runes so
// multi-byte names are measured the way users see them
func ValidateUsername(username string) error {
	length := utf8.RuneCountInString(username)
	if length < usernameMinLen || length > usernameMaxLen {
		return fmt.Errorf("invalid username: must be %d-%d characters", usernameMinLen, usernameMaxLen)
	}
	return nil
}

// ValidateEmail checks the email is a parseable address
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("invalid email: cannot be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email: malformed address")
	}
	return nil
}

// ValidatePassword checks the password is non-empty
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("invalid password: cannot be empty")
	}
	return nil
}

// ValidateAmount checks if amount is valid (positive)
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("invalid amount: must be greater than 0")
	}
	return nil
}

// ValidatePostTitle checks the post title bounds
func ValidatePostTitle(title string) error {
	if title == "" || utf8.RuneCountInString(title) > postTitleMax {
		return fmt.Errorf("invalid title: must be 1-%d characters", postTitleMax)
	}
	return nil
}
