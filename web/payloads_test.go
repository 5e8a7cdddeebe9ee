package web_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finmind/finmind-go/web"
)

func TestLoginRequestValidate(t *testing.T) {
	valid := web.LoginRequest{Email: "owner@acme.test", Password: "secret"}
	assert.NoError(t, valid.Validate())

	badEmail := web.LoginRequest{Email: "not-an-email", Password: "secret"}
	assert.Error(t, badEmail.Validate())

	noPassword := web.LoginRequest{Email: "owner@acme.test"}
	err := noPassword.Validate()
	require.Error(t, err)

	fields := web.FormatValidationErrorToMap(err)
	assert.Contains(t, fields, "password")
}

func TestSignupRequestValidate(t *testing.T) {
	payload := web.SignupRequest{
		Email:           "owner@acme.test",
		FullName:        "Ada Owner",
		BusinessName:    "Acme Traders",
		Industry:        "retail",
		Password:        "longenough",
		ConfirmPassword: "longenough",
	}
	assert.NoError(t, payload.Validate())
}

func TestSignupRequestPasswordsMustMatch(t *testing.T) {
	payload := web.SignupRequest{
		Email:           "owner@acme.test",
		FullName:        "Ada Owner",
		BusinessName:    "Acme Traders",
		Industry:        "retail",
		Password:        "longenough",
		ConfirmPassword: "different-pass",
	}

	err := payload.Validate()
	require.Error(t, err)

	fields := web.FormatValidationErrorToMap(err)
	assert.Contains(t, fields, "confirm_password")
	assert.Contains(t, fields["confirm_password"], "must match")
}

func TestValidateUploadFile(t *testing.T) {
	for _, name := range []string{
		"statement.csv",
		"ledger.xlsx",
		"books.xls",
		"report.pdf",
		"REPORT.PDF",
	} {
		assert.NoError(t, web.ValidateUploadFile(name, 1024), name)
	}

	err := web.ValidateUploadFile("notes.txt", 1024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")

	assert.Error(t, web.ValidateUploadFile("archive", 1024))
}

func TestValidateUploadFileSizeLimit(t *testing.T) {
	assert.NoError(t, web.ValidateUploadFile("statement.csv", web.MaxUploadSize))

	err := web.ValidateUploadFile("statement.csv", web.MaxUploadSize+1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "10MB")
}

func TestValidateStringEquals(t *testing.T) {
	rule := web.ValidateStringEquals("expected")

	assert.NoError(t, rule("expected"))

	err := rule("other")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "must match"))
}
