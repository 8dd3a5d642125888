package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"basera_backend/internal/model"
	"basera_backend/pkg/allowance"
	"basera_backend/pkg/database"
	"basera_backend/pkg/utils/jwt"
)

// CheckPostingAllowance ilan oluşturma rotasını korur. Salt okunur
// çalışır; okuma hatasında asla açık kalmaz, ret döner. Otoriter
// tüketim controller'daki transaction'dadır.
func CheckPostingAllowance() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		decision, err := EvaluateAllowance(claims.UserID)
		if err != nil {
			// Fail closed
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":  "Could not verify posting allowance",
				"reason": allowance.ReasonCheckFailed,
			})
		}

		if !decision.Allowed {
			status := fiber.StatusForbidden
			if decision.Reason == allowance.ReasonCreditsUnknown {
				// Bakiye henüz çözülmedi, istemci bekleyip tekrar denemeli
				status = fiber.StatusConflict
			}
			body := fiber.Map{
				"error":  "Posting not allowed",
				"reason": decision.Reason,
			}
			if decision.Reason == allowance.ReasonNoCredits ||
				decision.Reason == allowance.ReasonNoSubscription ||
				decision.Reason == allowance.ReasonExpired {
				body["redirect"] = "/plans"
			}
			return c.Status(status).JSON(body)
		}

		c.Locals("allowance", decision)
		return c.Next()
	}
}

// EvaluateAllowance profili okuyup gate kararını üretir
func EvaluateAllowance(userID uint) (allowance.Decision, error) {
	var user model.User
	if err := database.GetDB().First(&user, userID).Error; err != nil {
		return allowance.Deny(allowance.ReasonProfileNotFound), err
	}

	if user.UserType == model.UserTypeDeveloper {
		return allowance.DecideDeveloper(user.PropertyCredits), nil
	}

	snap := allowance.IndividualSnapshot{
		IsSubscribed:          user.IsSubscribed,
		SubscriptionType:      user.SubscriptionType,
		SubscriptionExpiry:    user.SubscriptionExpiry,
		CurrentSubscriptionID: user.CurrentSubscriptionID,
	}

	var used int64
	if snap.CurrentSubscriptionID != nil {
		err := database.GetDB().Model(&model.Listing{}).
			Where("user_id = ? AND subscription_id = ?", userID, *snap.CurrentSubscriptionID).
			Count(&used).Error
		if err != nil {
			return allowance.Deny(allowance.ReasonCheckFailed), err
		}
	}

	return allowance.DecideIndividual(snap, used, time.Now()), nil
}
