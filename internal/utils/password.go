package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// Coût bcrypt : 10, soit un salt généré aléatoirement à chaque hash
const BcryptCost = 10

// HashPassword hash un mot de passe avec bcrypt.
// Le hash n'est jamais réversible et embarque son propre salt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// MatchPassword compare un mot de passe en clair au hash stocké
func MatchPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
