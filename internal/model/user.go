package model

import "time"

type User struct {
	ID           int64     `json:"_id"`
	Name         string    `json:"name"`
	Email        *string   `json:"email,omitempty"` // nil у пользователей, пришедших только из Telegram
	PasswordHash string    `json:"-"`
	TelegramID   *int64    `json:"telegram_id,omitempty"`
	Username     string    `json:"username,omitempty"`
	LanguageCode string    `json:"language_code,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// DisplayName имя для приветствия: name, иначе часть email до @, иначе "User"
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Email != nil {
		for i, r := range *u.Email {
			if r == '@' {
				if i > 0 {
					return (*u.Email)[:i]
				}
				break
			}
		}
	}
	return "User"
}
