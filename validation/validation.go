// Package validation provides input validation utilities. These run
// client-side before any network call; the backend revalidates everything.
package validation

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9가-힣_-]+$`)

// Earliest birth date the product accepts.
var minBirthDate = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// ValidateUsername checks if a username meets requirements.
func ValidateUsername(username string) error {
	length := utf8.RuneCountInString(username)
	if length < 3 {
		return fmt.Errorf("사용자명은 3글자 이상이어야 합니다.")
	}
	if length > 20 {
		return fmt.Errorf("사용자명은 20글자 이하여야 합니다.")
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("사용자명에는 문자, 숫자, 밑줄, 하이픈만 사용할 수 있습니다.")
	}
	return nil
}

// ValidatePassword checks if a password meets requirements.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("비밀번호는 6글자 이상이어야 합니다.")
	}
	if len(password) > 128 {
		return fmt.Errorf("비밀번호는 128글자 이하여야 합니다.")
	}
	return nil
}

// ValidateBirthDate checks that a birth date parses and falls between
// 1900-01-01 and today.
func ValidateBirthDate(birth string) error {
	if birth == "" {
		return fmt.Errorf("생년월일을 입력해주세요.")
	}
	parsed, err := time.Parse("2006-01-02", birth)
	if err != nil {
		return fmt.Errorf("생년월일 형식이 올바르지 않습니다.")
	}
	if parsed.Before(minBirthDate) {
		return fmt.Errorf("생년월일이 올바르지 않습니다.")
	}
	if parsed.After(time.Now()) {
		return fmt.Errorf("생년월일은 미래일 수 없습니다.")
	}
	return nil
}
