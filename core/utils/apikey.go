package utils

import "golang.org/x/crypto/bcrypt"

// HashAPIKey produces the bcrypt hash stored in config for internal keys.
func HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CompareAPIKey checks a presented key against the configured bcrypt hash.
func CompareAPIKey(hash, key string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}
