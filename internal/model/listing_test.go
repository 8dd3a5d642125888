package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestListingEditableAt(t *testing.T) {
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	listing := Listing{Model: gorm.Model{CreatedAt: created}}

	t.Run("editable right after creation", func(t *testing.T) {
		assert.True(t, listing.EditableAt(created))
	})

	t.Run("editable just before window closes", func(t *testing.T) {
		assert.True(t, listing.EditableAt(created.Add(EditWindow-time.Second)))
	})

	t.Run("locked exactly at window boundary", func(t *testing.T) {
		assert.False(t, listing.EditableAt(created.Add(EditWindow)))
	})

	t.Run("locked after window", func(t *testing.T) {
		assert.False(t, listing.EditableAt(created.Add(EditWindow+time.Hour)))
	})
}

func TestBHKEligible(t *testing.T) {
	eligible := []PropertyType{
		PropertyTypeApartment,
		PropertyTypeIndependent,
		PropertyTypeVilla,
		PropertyTypePenthouse,
		PropertyTypeFarmhouse,
	}
	for _, pt := range eligible {
		assert.True(t, BHKEligible(pt), string(pt))
	}

	notEligible := []PropertyType{
		PropertyTypeStudio,
		PropertyTypePlot,
		PropertyTypeCommercial,
		PropertyType("unknown"),
	}
	for _, pt := range notEligible {
		assert.False(t, BHKEligible(pt), string(pt))
	}
}

func TestUserHasActiveSubscription(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	subID := uint(1)

	t.Run("not subscribed", func(t *testing.T) {
		u := User{}
		assert.False(t, u.HasActiveSubscription(now))
	})

	t.Run("subscribed without expiry", func(t *testing.T) {
		u := User{IsSubscribed: true, CurrentSubscriptionID: &subID}
		assert.True(t, u.HasActiveSubscription(now))
	})

	t.Run("subscribed but expired", func(t *testing.T) {
		past := now.Add(-time.Minute)
		u := User{IsSubscribed: true, CurrentSubscriptionID: &subID, SubscriptionExpiry: &past}
		assert.False(t, u.HasActiveSubscription(now))
	})

	t.Run("subscribed and valid", func(t *testing.T) {
		future := now.Add(time.Hour)
		u := User{IsSubscribed: true, CurrentSubscriptionID: &subID, SubscriptionExpiry: &future}
		assert.True(t, u.HasActiveSubscription(now))
	})
}
