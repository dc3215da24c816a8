package repository

import "errors"

// Erreurs métier remontées par les repositories, mappées sur les statuts
// HTTP par les handlers
var (
	ErrNotFound       = errors.New("enregistrement introuvable")
	ErrCodeTaken      = errors.New("code coupon déjà utilisé")
	ErrEmailTaken     = errors.New("email déjà utilisé")
	ErrAlreadyClaimed = errors.New("offre déjà réclamée")
)
