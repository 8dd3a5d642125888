package controller

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74"
	checkoutsession "github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/webhook"
	"gorm.io/gorm"

	"basera_backend/internal/model"
	"basera_backend/pkg/allowance"
	"basera_backend/pkg/database"
	"basera_backend/pkg/email"
	"basera_backend/pkg/utils/jwt"
)

type CheckoutInput struct {
	PlanID uint `json:"plan_id" validate:"required"`
}

func InitSubscriptionController() {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
}

// ListPlans plan kataloğunu döner; istemci kind alanına göre
// abonelik ve kredi paketlerini ayırır
func ListPlans(c *fiber.Ctx) error {
	var plans []model.Plan
	if err := database.GetDB().Find(&plans).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch plans",
		})
	}

	return c.JSON(plans)
}

// CreateCheckoutSession seçilen plan için Stripe Checkout oturumu açar.
// Satın alma webhook'ta tamamlanır; burada hiçbir hak verilmez.
func CreateCheckoutSession(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(CheckoutInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var plan model.Plan
	if err := database.GetDB().First(&plan, input.PlanID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Plan not found",
		})
	}

	var user model.User
	if err := database.GetDB().First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	// Plan tipi hesap tipiyle uyuşmalı
	if plan.Kind == model.PlanKindDeveloperCredits && user.UserType != model.UserTypeDeveloper {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Credit packs are only available for developer accounts",
		})
	}
	if plan.Kind == model.PlanKindIndividualListing && user.UserType != model.UserTypeIndividual {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Listing subscriptions are only available for individual accounts",
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(user.Email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(plan.StripePriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(os.Getenv("STRIPE_SUCCESS_URL")),
		CancelURL:  stripe.String(os.Getenv("STRIPE_CANCEL_URL")),
	}
	params.AddMetadata("user_id", strconv.FormatUint(uint64(user.ID), 10))
	params.AddMetadata("plan_id", strconv.FormatUint(uint64(plan.ID), 10))

	session, err := checkoutsession.New(params)
	if err != nil {
		log.Printf("Could not create checkout session: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create checkout session",
		})
	}

	return c.JSON(fiber.Map{
		"checkout_url": session.URL,
		"session_id":   session.ID,
	})
}

// GetMySubscription aktif aboneliği döner
func GetMySubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var userSub model.UserSubscription
	if err := database.GetDB().Where("user_id = ? AND status = ?", claims.UserID, "active").
		Order("created_at desc").
		Preload("Plan").First(&userSub).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active subscription found",
		})
	}

	return c.JSON(userSub)
}

// CancelSubscription aktif aboneliği iptal eder ve profildeki
// abonelik görüntüsünü temizler
func CancelSubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var userSub model.UserSubscription
	if err := database.GetDB().Where("user_id = ? AND status = ?", claims.UserID, "active").
		Preload("User").
		Preload("Plan").
		First(&userSub).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active subscription found",
		})
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&userSub).Update("status", "cancelled").Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).Where("id = ?", claims.UserID).Updates(map[string]interface{}{
			"is_subscribed":           false,
			"subscription_type":       "",
			"subscription_expiry":     nil,
			"current_subscription_id": nil,
		}).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not cancel subscription",
		})
	}

	if email.GlobalEmailService != nil {
		err := email.GlobalEmailService.SendSubscriptionCancelledEmail(
			userSub.User.Email,
			userSub.User.Name,
			userSub.Plan.Name,
			userSub.ExpiresAt,
		)
		if err != nil {
			log.Printf("Could not send subscription cancellation email: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Subscription cancelled successfully",
	})
}

// HandleSubscriptionSuccess Stripe Checkout sonrası dönüş sayfası.
// Hakkın kendisi webhook ile verilir; burada sadece bilgi döneriz.
func HandleSubscriptionSuccess(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Payment received. Your purchase will be activated shortly.",
	})
}

func HandleSubscriptionCancel(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Payment cancelled. No charges were made.",
	})
}

// HandleStripeWebhook checkout.session.completed olayında satın almayı
// tamamlar: individual planlarda abonelik kaydı + profil görüntüsü,
// kredi paketlerinde atomik kredi artışı
func HandleStripeWebhook(c *fiber.Ctx) error {
	webhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")

	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEvent(payload, signatureHeader, webhookSecret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	log.Printf("Processing Stripe webhook event: %s", event.Type)

	if event.Type != "checkout.session.completed" {
		return c.SendStatus(fiber.StatusOK)
	}

	var session struct {
		ID            string            `json:"id"`
		PaymentIntent string            `json:"payment_intent"`
		AmountTotal   int64             `json:"amount_total"`
		Currency      string            `json:"currency"`
		Metadata      map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return c.Status(fiber.StatusBadRequest).Send(nil)
	}

	userID, err1 := strconv.ParseUint(session.Metadata["user_id"], 10, 32)
	planID, err2 := strconv.ParseUint(session.Metadata["plan_id"], 10, 32)
	if err1 != nil || err2 != nil {
		log.Printf("Webhook session %s missing metadata", session.ID)
		return c.SendStatus(fiber.StatusOK)
	}

	// Aynı oturum iki kez işlenmesin
	var existing int64
	database.GetDB().Model(&model.UserSubscription{}).
		Where("stripe_session_id = ?", session.ID).Count(&existing)
	if existing > 0 {
		return c.SendStatus(fiber.StatusOK)
	}

	var plan model.Plan
	if err := database.GetDB().First(&plan, uint(planID)).Error; err != nil {
		log.Printf("Webhook references unknown plan %d", planID)
		return c.SendStatus(fiber.StatusOK)
	}

	var user model.User
	if err := database.GetDB().First(&user, uint(userID)).Error; err != nil {
		log.Printf("Webhook references unknown user %d", userID)
		return c.SendStatus(fiber.StatusOK)
	}

	switch plan.Kind {
	case model.PlanKindDeveloperCredits:
		err = fulfillCreditPack(&user, &plan, session.ID, session.PaymentIntent)
	case model.PlanKindIndividualListing:
		err = fulfillListingSubscription(&user, &plan, session.ID, session.PaymentIntent)
	default:
		log.Printf("Plan %d has unknown kind %q", plan.ID, plan.Kind)
	}
	if err != nil {
		log.Printf("Could not fulfill checkout session %s: %v", session.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not process payment",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func fulfillCreditPack(user *model.User, plan *model.Plan, sessionID, paymentID string) error {
	return database.GetDB().Transaction(func(tx *gorm.DB) error {
		record := model.UserSubscription{
			UserID:          user.ID,
			PlanID:          plan.ID,
			Status:          "active",
			Amount:          plan.Price,
			Currency:        plan.Currency,
			StripeSessionID: sessionID,
			StripePaymentID: paymentID,
			ExpiresAt:       time.Now().AddDate(10, 0, 0), // krediler süresiz
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		return tx.Model(&model.User{}).
			Where("id = ?", user.ID).
			UpdateColumn("property_credits",
				gorm.Expr("COALESCE(property_credits, 0) + ?", plan.CreditsGranted)).Error
	})
}

func fulfillListingSubscription(user *model.User, plan *model.Plan, sessionID, paymentID string) error {
	expiresAt := time.Now().AddDate(0, plan.DurationMonths, 0)

	var record model.UserSubscription
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		record = model.UserSubscription{
			UserID:          user.ID,
			PlanID:          plan.ID,
			Status:          "active",
			Amount:          plan.Price,
			Currency:        plan.Currency,
			StripeSessionID: sessionID,
			StripePaymentID: paymentID,
			ExpiresAt:       expiresAt,
			ListingsAllowed: allowance.ListingsPerSubscription,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		return tx.Model(&model.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
			"is_subscribed":           true,
			"subscription_type":       allowance.IndividualSubscriptionType,
			"subscription_expiry":     expiresAt,
			"current_subscription_id": record.ID,
		}).Error
	})
	if err != nil {
		return err
	}

	if email.GlobalEmailService != nil {
		err := email.GlobalEmailService.SendSubscriptionStartedEmail(
			user.Email,
			user.Name,
			plan.Name,
			plan.DurationMonths,
			plan.Price,
			plan.Currency,
			expiresAt,
		)
		if err != nil {
			log.Printf("Could not send subscription email: %v", err)
		}
	}

	return nil
}
