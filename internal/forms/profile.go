package forms

import (
	"strings"

	"github.com/sadopc/minima/internal/model"
)

type ProfileForm struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatarUrl"`
}

func ProfileFormFrom(u model.User) ProfileForm {
	return ProfileForm{DisplayName: u.DisplayName, Email: u.Email, AvatarURL: u.AvatarURL}
}

var (
	DisplayNameCheck = Required("Display name is required.")
	EmailCheck       = Email
	AvatarURLCheck   = Optional(URL)
)

func (f ProfileForm) Validate() *Errors {
	return check([]Rule{
		{Field: "displayName", Value: f.DisplayName, Check: DisplayNameCheck},
		{Field: "email", Value: f.Email, Check: EmailCheck},
		{Field: "avatarUrl", Value: f.AvatarURL, Check: AvatarURLCheck},
	})
}

// ApplyTo returns u with the profile fields replaced.
func (f ProfileForm) ApplyTo(u model.User) model.User {
	u.DisplayName = strings.TrimSpace(f.DisplayName)
	u.Email = strings.TrimSpace(f.Email)
	u.AvatarURL = strings.TrimSpace(f.AvatarURL)
	return u
}
