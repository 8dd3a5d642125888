// Package allowance ilan verme hakkı kararlarını tutar. Gate Check
// middleware'i veriyi yükler, karar burada saf fonksiyonlarla verilir;
// otoriter tüketim listing controller'daki transaction'dadır.
package allowance

import "time"

const (
	// ListingsPerSubscription bir individual aboneliğin verdiği ilan hakkı
	ListingsPerSubscription = 1

	// IndividualSubscriptionType abonelik tipinin ilan hakkı taşıyan değeri
	IndividualSubscriptionType = "individual_listing"
)

// Reason gate ret nedenleri
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonNoSubscription  Reason = "no_active_subscription"
	ReasonExpired         Reason = "subscription_expired"
	ReasonWrongPlan       Reason = "subscription_not_for_listings"
	ReasonLimitReached    Reason = "limit_reached"
	ReasonNoCredits       Reason = "no_credits"
	ReasonCreditsUnknown  Reason = "credits_not_loaded"
	ReasonCheckFailed     Reason = "error_checking_subscription"
	ReasonProfileNotFound Reason = "profile_not_found"
)

// Decision gate sonucu
type Decision struct {
	Allowed        bool   `json:"allowed"`
	Reason         Reason `json:"reason,omitempty"`
	SubscriptionID uint   `json:"subscription_id,omitempty"`
	CreditsLeft    int    `json:"credits_left,omitempty"`
}

// IndividualSnapshot gate için profilden okunan abonelik görüntüsü
type IndividualSnapshot struct {
	IsSubscribed          bool
	SubscriptionType      string
	SubscriptionExpiry    *time.Time
	CurrentSubscriptionID *uint
}

// Deny hazır bir ret kararı döner
func Deny(reason Reason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// DecideIndividual individual hesap için gate kararını verir.
// listingsUsed, CurrentSubscriptionID ile etiketlenmiş mevcut ilan sayısıdır.
func DecideIndividual(snap IndividualSnapshot, listingsUsed int64, now time.Time) Decision {
	if !snap.IsSubscribed || snap.CurrentSubscriptionID == nil {
		return Deny(ReasonNoSubscription)
	}
	if snap.SubscriptionExpiry != nil && !snap.SubscriptionExpiry.After(now) {
		return Deny(ReasonExpired)
	}
	if snap.SubscriptionType != IndividualSubscriptionType {
		return Deny(ReasonWrongPlan)
	}
	if listingsUsed >= ListingsPerSubscription {
		return Deny(ReasonLimitReached)
	}
	return Decision{Allowed: true, SubscriptionID: *snap.CurrentSubscriptionID}
}

// DecideDeveloper developer hesap için gate kararını verir.
// credits NULL ise bakiye henüz çözülmemiştir ve akış ilerleyemez.
func DecideDeveloper(credits *int) Decision {
	if credits == nil {
		return Deny(ReasonCreditsUnknown)
	}
	if *credits <= 0 {
		return Deny(ReasonNoCredits)
	}
	return Decision{Allowed: true, CreditsLeft: *credits}
}
