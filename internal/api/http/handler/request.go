package handler

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/mkazak/authgate/internal/model"
)

var (
	hasLetter = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit  = regexp.MustCompile(`\d`)
)

func passwordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Length(8, 0),
		validation.Match(hasLetter).Error("must contain at least one letter"),
		validation.Match(hasDigit).Error("must contain at least one digit"),
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, passwordRules()...),
	)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r refreshTokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r forgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (r resetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, passwordRules()...),
	)
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (r createUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, passwordRules()...),
		validation.Field(&r.Role, validation.In(string(model.RoleUser), string(model.RoleAdmin))),
	)
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

func (r updateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Password,
			validation.Length(8, 0),
			validation.Match(hasLetter).Error("must contain at least one letter"),
			validation.Match(hasDigit).Error("must contain at least one digit"),
		),
		validation.Field(&r.Role, validation.In(string(model.RoleUser), string(model.RoleAdmin))),
	)
}

// toUpdate maps the request onto the permitted-field update struct.
func (r updateUserRequest) toUpdate() model.UserUpdate {
	update := model.UserUpdate{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
	}
	if r.Role != nil {
		role := model.Role(*r.Role)
		update.Role = &role
	}
	return update
}
