package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"
)

type EmailService struct {
	apiKey    string
	from      string
	templates *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

// Template data structures
type WelcomeEmailData struct {
	Name string
}

type VisitNotificationData struct {
	ListingTitle  string
	VisitorName   string
	VisitorPhone  string
	PreferredDate time.Time
}

type SubscriptionEmailData struct {
	Name           string
	PlanName       string
	DurationMonths int
	Price          float64
	Currency       string
	ExpiresAt      time.Time
}

type SubscriptionCancelledData struct {
	Name      string
	PlanName  string
	ExpiresAt time.Time
}

type SubscriptionExpiryWarningData struct {
	Name       string
	PlanName   string
	DaysLeft   int
	ExpiryDate time.Time
}

type PasswordResetData struct {
	ResetLink string
}

type ComplaintAckData struct {
	ComplaintID uint
	Subject     string
}

type ListingExpiredData struct {
	Name         string
	ListingTitle string
}

func NewEmailService(apiKey, from string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	if from == "" {
		from = "Basera <noreply@basera.in>"
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      from,
		templates: templates,
	}, nil
}

func (s *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	emailData := EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	log.Printf("Email sent to %s: %s", to, subject)

	return nil
}

// Email sending methods
func (s *EmailService) SendWelcomeEmail(email, name string) error {
	data := WelcomeEmailData{
		Name: name,
	}
	return s.sendTemplateEmail(email, "Welcome to Basera!", "welcome.html", data)
}

func (s *EmailService) SendVisitNotificationEmail(
	ownerEmail, listingTitle, visitorName, visitorPhone string,
	preferredDate time.Time,
) error {
	data := VisitNotificationData{
		ListingTitle:  listingTitle,
		VisitorName:   visitorName,
		VisitorPhone:  visitorPhone,
		PreferredDate: preferredDate,
	}
	return s.sendTemplateEmail(ownerEmail, "New Site Visit Request for Your Listing", "visit_notification.html", data)
}

func (s *EmailService) SendSubscriptionStartedEmail(
	email string,
	name string,
	planName string,
	durationMonths int,
	price float64,
	currency string,
	expiresAt time.Time,
) error {
	data := SubscriptionEmailData{
		Name:           name,
		PlanName:       planName,
		DurationMonths: durationMonths,
		Price:          price,
		Currency:       currency,
		ExpiresAt:      expiresAt,
	}

	return s.sendTemplateEmail(email, "Your Basera Subscription Is Active", "subscription_started.html", data)
}

func (s *EmailService) SendSubscriptionCancelledEmail(email, name, planName string, expiresAt time.Time) error {
	data := SubscriptionCancelledData{
		Name:      name,
		PlanName:  planName,
		ExpiresAt: expiresAt,
	}
	return s.sendTemplateEmail(email, "Your Subscription Has Been Cancelled", "subscription_cancelled.html", data)
}

func (s *EmailService) SendSubscriptionExpiryWarning(
	email, name, planName string,
	expiryDate time.Time,
	daysLeft int,
) error {
	data := SubscriptionExpiryWarningData{
		Name:       name,
		PlanName:   planName,
		DaysLeft:   daysLeft,
		ExpiryDate: expiryDate,
	}
	return s.sendTemplateEmail(
		email,
		fmt.Sprintf("Your Subscription Expires in %d Days", daysLeft),
		"subscription_expiry_warning.html",
		data,
	)
}

func (s *EmailService) SendPasswordResetEmail(email, resetLink string) error {
	data := PasswordResetData{
		ResetLink: resetLink,
	}
	return s.sendTemplateEmail(email, "Reset Your Password", "password_reset.html", data)
}

func (s *EmailService) SendComplaintAckEmail(email string, complaintID uint, subject string) error {
	data := ComplaintAckData{
		ComplaintID: complaintID,
		Subject:     subject,
	}
	return s.sendTemplateEmail(email, "We Received Your Complaint", "complaint_ack.html", data)
}

func (s *EmailService) SendListingExpiredEmail(email, name, listingTitle string) error {
	data := ListingExpiredData{
		Name:         name,
		ListingTitle: listingTitle,
	}
	return s.sendTemplateEmail(email, "Your Listing Has Expired", "listing_expired.html", data)
}
