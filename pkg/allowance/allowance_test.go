package allowance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func snapshot(subType string, expiry time.Time, subID uint) IndividualSnapshot {
	return IndividualSnapshot{
		IsSubscribed:          true,
		SubscriptionType:      subType,
		SubscriptionExpiry:    &expiry,
		CurrentSubscriptionID: &subID,
	}
}

func TestDecideIndividual(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no subscription", func(t *testing.T) {
		d := DecideIndividual(IndividualSnapshot{}, 0, now)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonNoSubscription, d.Reason)
	})

	t.Run("subscribed flag without subscription record", func(t *testing.T) {
		d := DecideIndividual(IndividualSnapshot{IsSubscribed: true}, 0, now)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonNoSubscription, d.Reason)
	})

	t.Run("expired subscription", func(t *testing.T) {
		d := DecideIndividual(snapshot(IndividualSubscriptionType, now.Add(-time.Hour), 7), 0, now)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonExpired, d.Reason)
	})

	t.Run("expiring exactly now is expired", func(t *testing.T) {
		d := DecideIndividual(snapshot(IndividualSubscriptionType, now, 7), 0, now)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonExpired, d.Reason)
	})

	t.Run("wrong plan kind", func(t *testing.T) {
		d := DecideIndividual(snapshot("developer_credits", now.Add(time.Hour), 7), 0, now)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonWrongPlan, d.Reason)
	})

	t.Run("limit reached", func(t *testing.T) {
		d := DecideIndividual(snapshot(IndividualSubscriptionType, now.Add(time.Hour), 7), 1, now)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonLimitReached, d.Reason)
	})

	t.Run("allowed", func(t *testing.T) {
		d := DecideIndividual(snapshot(IndividualSubscriptionType, now.Add(time.Hour), 7), 0, now)
		assert.True(t, d.Allowed)
		assert.Equal(t, Reason(""), d.Reason)
		assert.Equal(t, uint(7), d.SubscriptionID)
	})

	t.Run("no expiry date set", func(t *testing.T) {
		subID := uint(3)
		snap := IndividualSnapshot{
			IsSubscribed:          true,
			SubscriptionType:      IndividualSubscriptionType,
			CurrentSubscriptionID: &subID,
		}
		d := DecideIndividual(snap, 0, now)
		assert.True(t, d.Allowed)
	})
}

func TestDecideDeveloper(t *testing.T) {
	t.Run("credits not loaded", func(t *testing.T) {
		d := DecideDeveloper(nil)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonCreditsUnknown, d.Reason)
	})

	t.Run("zero credits", func(t *testing.T) {
		credits := 0
		d := DecideDeveloper(&credits)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonNoCredits, d.Reason)
	})

	t.Run("negative credits", func(t *testing.T) {
		credits := -1
		d := DecideDeveloper(&credits)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonNoCredits, d.Reason)
	})

	t.Run("positive credits", func(t *testing.T) {
		credits := 5
		d := DecideDeveloper(&credits)
		assert.True(t, d.Allowed)
		assert.Equal(t, 5, d.CreditsLeft)
	})
}
