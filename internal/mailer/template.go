package mailer

import (
	"bytes"
	"html/template"
)

type verificationData struct {
	BaseURL  string
	Username string
	Token    string
	TTL      string
}

var verificationTemplate = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<p>Hi {{.Username}},</p>
	<p>Please confirm your email address by clicking the link below. The link
	is valid for {{.TTL}}.</p>
	<p><a href="{{.BaseURL}}/api/user/verify/{{.Token}}">Verify email address</a></p>
	<p>If you did not create this account, you can ignore this message.</p>
</body>
</html>
`))

func renderVerification(data verificationData) (string, error) {
	var buf bytes.Buffer
	if err := verificationTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
