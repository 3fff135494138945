package service

import "fmt"

func welcomeEmailTemplate(email, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your account is ready. Sign in with your email and password to get a session
token, then upload files and folders with it.

Images you upload get 500, 250 and 100 pixel wide thumbnails a few moments later.

Best,
The %s Team`, email, appName)

	return subject, body
}
