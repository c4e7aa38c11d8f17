package entity

// User representa un usuario del backend (perfil cacheado en la sesión).
type User struct {
	ID       int64
	Username string
	Name     string
	Email    string
	Avatar   string
	IsActive bool
	IsAdmin  bool
}

// DisplayName devuelve el nombre visible: Name si existe, si no Username.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
