package services

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

const resetEmailBody = `<h1>Reset Your Password</h1>
<p>Click the link below to reset your password:</p>
<a href="%s" style="padding: 10px 15px; background-color: #7e22ce; color: white; text-decoration: none; border-radius: 4px;">Reset Password</a>
<p>If you didn't request this, please ignore this email.</p>
<p>This link will expire in 1 hour.</p>`

// SendPasswordResetEmail delivers the reset link over SMTP. Configuration
// comes from EMAIL_SERVER_USER/EMAIL_SERVER_PASSWORD plus optional
// SMTP_HOST, SMTP_PORT and EMAIL_FROM.
func SendPasswordResetEmail(to, resetURL string) error {
	user := os.Getenv("EMAIL_SERVER_USER")
	password := os.Getenv("EMAIL_SERVER_PASSWORD")

	if user == "" || password == "" {
		return fmt.Errorf("email server credentials are not configured")
	}

	host := os.Getenv("SMTP_HOST")

	if host == "" {
		host = "smtp.gmail.com"
	}

	port := 587

	if rawPort := os.Getenv("SMTP_PORT"); rawPort != "" {
		parsed, err := strconv.Atoi(rawPort)

		if err != nil {
			return fmt.Errorf("invalid SMTP_PORT: %w", err)
		}

		port = parsed
	}

	from := os.Getenv("EMAIL_FROM")

	if from == "" {
		from = "noreply@utterly.io"
	}

	message := gomail.NewMessage()
	message.SetHeader("From", from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", "Password Reset for Utterly")
	message.SetBody("text/html", fmt.Sprintf(resetEmailBody, resetURL))

	dialer := gomail.NewDialer(host, port, user, password)

	return dialer.DialAndSend(message)
}
