// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"fmt"
	"html/template"
	"strings"
)

const (
	subjectVerification = "Verify your email"
	subjectWelcome      = "Welcome to Auth Company"
	subjectReset        = "Reset Password"
	subjectResetSuccess = "Password Reset Successful"
)

var verificationTmpl = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Verify your email</h2>
  <p>Thanks for signing up! Enter the code below to confirm your email address:</p>
  <p style="font-size: 32px; font-weight: bold; letter-spacing: 6px;">{{.Code}}</p>
  <p>The code expires in 24 hours. If you didn't create an account, you can ignore this email.</p>
</body>
</html>`))

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <p>Hello {{.Name}}, welcome to Auth Company!</p>
  <p>Your email address has been verified and your account is ready to use.</p>
</body>
</html>`))

var resetRequestTmpl = template.Must(template.New("reset_request").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Reset your password</h2>
  <p>We received a request to reset the password for your account. Click the link below to choose a new one:</p>
  <p><a href="{{.ResetURL}}">Reset Password</a></p>
  <p>The link expires in 1 hour. If you didn't request a reset, you can ignore this email.</p>
</body>
</html>`))

var resetSuccessTmpl = template.Must(template.New("reset_success").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Password reset successful</h2>
  <p>The password for your account was just changed. If this wasn't you, contact support immediately.</p>
</body>
</html>`))

func render(tmpl *template.Template, data any) (string, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
