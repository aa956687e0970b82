package session

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walimu/walimu/core"
)

func newTestValidator(t *testing.T) *validator.Validate {
	t.Helper()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, ok := uni.GetTranslator("en")
	require.True(t, ok)

	validate := validator.New()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate
}

func fieldTags(err error) map[string]string {
	tags := make(map[string]string)
	if vErrs, ok := err.(validator.ValidationErrors); ok {
		for _, vErr := range vErrs {
			tags[vErr.Field()] = vErr.Tag()
		}
	}
	return tags
}

func validAccount() NewAccount {
	return NewAccount{
		FullName:        "Amina Yusuf",
		Email:           "amina@test.cd",
		Role:            "student",
		Password:        "G00d-pa55word!",
		PasswordConfirm: "G00d-pa55word!",
	}
}

func TestCredentials_Validate(t *testing.T) {
	validate := newTestValidator(t)

	tests := []struct {
		name    string
		creds   Credentials
		wantTag map[string]string
	}{
		{name: "ok", creds: Credentials{Email: "a@b.cd", Password: "x"}},
		{name: "ok with role", creds: Credentials{Email: "a@b.cd", Password: "x", Role: "tutor"}},
		{name: "ok with raw user role", creds: Credentials{Email: "a@b.cd", Password: "x", Role: "user"}},
		{name: "bad email", creds: Credentials{Email: "nope", Password: "x"}, wantTag: map[string]string{"email": "email"}},
		{name: "missing password", creds: Credentials{Email: "a@b.cd"}, wantTag: map[string]string{"password": "required"}},
		{name: "unknown role", creds: Credentials{Email: "a@b.cd", Password: "x", Role: "boss"}, wantTag: map[string]string{"role": "rawrole"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate(validate)
			if tt.wantTag == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			tags := fieldTags(err)
			for fld, tag := range tt.wantTag {
				assert.Equal(t, tag, tags[fld])
			}
		})
	}
}

func TestNewAccount_Validate(t *testing.T) {
	validate := newTestValidator(t)

	tests := []struct {
		name    string
		mutate  func(*NewAccount)
		wantTag map[string]string
	}{
		{name: "ok", mutate: func(*NewAccount) {}},
		{
			name: "bursary admin requires bursary name",
			mutate: func(acc *NewAccount) {
				acc.Role = "bursary_admin"
				acc.BursaryName = ""
			},
			wantTag: map[string]string{"bursary_name": "bursaryname"},
		},
		{
			name: "bursary admin with bursary name",
			mutate: func(acc *NewAccount) {
				acc.Role = "bursary_admin"
				acc.BursaryName = "Hope Foundation"
			},
		},
		{
			name: "password confirm mismatch",
			mutate: func(acc *NewAccount) {
				acc.PasswordConfirm = "Different-123!"
			},
			wantTag: map[string]string{"password_confirm": "eqfield"},
		},
		{
			name: "short password",
			mutate: func(acc *NewAccount) {
				acc.Password = "aB1!"
				acc.PasswordConfirm = acc.Password
			},
			wantTag: map[string]string{"password": "pwdminlen"},
		},
		{
			name: "whitespace password",
			mutate: func(acc *NewAccount) {
				acc.Password = "aB1! aB1!"
				acc.PasswordConfirm = acc.Password
			},
			wantTag: map[string]string{"password": "pwdnospace"},
		},
		{
			name: "all numeric password",
			mutate: func(acc *NewAccount) {
				acc.Password = "1234567890"
				acc.PasswordConfirm = acc.Password
			},
			wantTag: map[string]string{"password": "pwdnotallnum"},
		},
		{
			name: "no complexity",
			mutate: func(acc *NewAccount) {
				acc.Password = "alllowercase1"
				acc.PasswordConfirm = acc.Password
			},
			wantTag: map[string]string{"password": "pwdcplx"},
		},
		{
			name: "similar to email",
			mutate: func(acc *NewAccount) {
				acc.Password = "Amina@test.cd1"
				acc.PasswordConfirm = acc.Password
			},
			wantTag: map[string]string{"password": "pwdtoosim"},
		},
		{
			name: "common password",
			mutate: func(acc *NewAccount) {
				acc.Password = "P@ssw0rd"
				acc.PasswordConfirm = acc.Password
			},
			wantTag: map[string]string{"password": "pwdnocommon"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := validAccount()
			tt.mutate(&acc)

			err := acc.Validate(validate)
			if tt.wantTag == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			tags := fieldTags(err)
			for fld, tag := range tt.wantTag {
				assert.Equal(t, tag, tags[fld])
			}
		})
	}
}
