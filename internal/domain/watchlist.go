package domain

import "strings"

// WatchlistEntry es un trader seguido por el usuario. Es lo único que se persiste.
type WatchlistEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Wallet      string `json:"wallet"`
	ProfileURL  string `json:"profileUrl"`
	JoinDate    string `json:"joinDate"`
}

// WalletKey es la clave de deduplicación: la dirección en minúsculas.
func (e WatchlistEntry) WalletKey() string {
	return NormalizeWallet(e.Wallet)
}

// Label es el nombre que se enseña en tablas y logs.
func (e WatchlistEntry) Label() string {
	switch {
	case e.Name != "":
		return e.Name
	case e.DisplayName != "":
		return e.DisplayName
	default:
		return ShortWallet(e.Wallet)
	}
}

// NormalizeWallet pasa la dirección a minúsculas sin espacios.
func NormalizeWallet(wallet string) string {
	return strings.ToLower(strings.TrimSpace(wallet))
}
