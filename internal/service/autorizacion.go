package service

import (
	"strings"

	"github.com/Josmarcito/sistema-durtron/internal/apierror"
	"github.com/Josmarcito/sistema-durtron/internal/dto"

	"golang.org/x/crypto/bcrypt"
)

// Autorizador validates the manager override required to sell below the
// equipment minimum price. It returns the name of the authorizing manager.
type Autorizador interface {
	Verificar(aut *dto.AutorizacionGerente) (string, error)
}

// AutorizadorGerente checks a named manager against bcrypt hashes loaded
// from configuration (MANAGER_CREDENTIALS).
type AutorizadorGerente struct {
	hashes map[string]string
}

func NewAutorizadorGerente(credenciales map[string]string) *AutorizadorGerente {
	hashes := make(map[string]string, len(credenciales))
	for nombre, hash := range credenciales {
		hashes[strings.ToLower(strings.TrimSpace(nombre))] = hash
	}
	return &AutorizadorGerente{hashes: hashes}
}

// dummyHash keeps the response time of an unknown manager close to a wrong password.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z1mfN6W2mNgk9e5e/ZYgmkQW"

func (a *AutorizadorGerente) Verificar(aut *dto.AutorizacionGerente) (string, error) {
	if aut == nil || aut.Gerente == "" || aut.Password == "" {
		return "", apierror.Authorization("precio por debajo del minimo: se requiere autorizacion de gerente")
	}
	hash, ok := a.hashes[strings.ToLower(strings.TrimSpace(aut.Gerente))]
	if !ok {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(aut.Password))
		return "", apierror.Authorization("credencial de gerente invalida")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(aut.Password)); err != nil {
		return "", apierror.Authorization("credencial de gerente invalida")
	}
	return strings.TrimSpace(aut.Gerente), nil
}
