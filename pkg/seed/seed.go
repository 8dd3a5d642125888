package seed

import (
	"basera_backend/internal/model"
	"log"

	"gorm.io/gorm"
)

func SeedPlans(db *gorm.DB) {
	plans := []model.Plan{
		{
			Name:            "Single Listing - 3 Months",
			Description:     "Publish one property for 3 months",
			Kind:            model.PlanKindIndividualListing,
			Price:           999,
			Currency:        "INR",
			DurationMonths:  3,
			ListingsAllowed: 1,
			StripeProductID: "prod_test_single_3m",
			StripePriceID:   "price_test_single_3m",
		},
		{
			Name:            "Single Listing - 6 Months",
			Description:     "Publish one property for 6 months",
			Kind:            model.PlanKindIndividualListing,
			Price:           1799,
			Currency:        "INR",
			DurationMonths:  6,
			ListingsAllowed: 1,
			StripeProductID: "prod_test_single_6m",
			StripePriceID:   "price_test_single_6m",
		},
		{
			Name:            "Builder Pack - 5 Credits",
			Description:     "Publish 5 projects, each live for a year",
			Kind:            model.PlanKindDeveloperCredits,
			Price:           9999,
			Currency:        "INR",
			CreditsGranted:  5,
			StripeProductID: "prod_test_builder_5",
			StripePriceID:   "price_test_builder_5",
		},
		{
			Name:            "Builder Pack - 20 Credits",
			Description:     "Publish 20 projects, each live for a year",
			Kind:            model.PlanKindDeveloperCredits,
			Price:           29999,
			Currency:        "INR",
			CreditsGranted:  20,
			StripeProductID: "prod_test_builder_20",
			StripePriceID:   "price_test_builder_20",
		},
	}

	for _, plan := range plans {
		result := db.FirstOrCreate(&plan, model.Plan{Name: plan.Name})
		if result.Error != nil {
			log.Printf("Error creating plan %s: %v", plan.Name, result.Error)
		}
	}

	log.Println("Plans seeded successfully!")
}
