package email

import "log"

var GlobalEmailService *EmailService

func InitEmailService(apiKey, from string) {
	service, err := NewEmailService(apiKey, from)
	if err != nil {
		log.Printf("Warning: email service not initialized: %v", err)
		return
	}

	GlobalEmailService = service
	log.Println("Email service initialized")
}
