package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"basera_backend/internal/media"
	"basera_backend/internal/middleware"
	"basera_backend/internal/model"
	"basera_backend/pkg/allowance"
	"basera_backend/pkg/database"
	imageutil "basera_backend/pkg/utils/image"
	"basera_backend/pkg/utils/jwt"
	"basera_backend/pkg/utils/storage"
	"basera_backend/pkg/utils/validation"
)

// Transaction içindeki hak düşümünün ayırt edilen sonuçları
var (
	errLimitReached = errors.New("subscription allowance already consumed")
	errNoCredits    = errors.New("no property credits left")
)

// r2Store pipeline'ın ObjectStore arayüzünü R2'ye bağlar
type r2Store struct{}

func (r2Store) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	return storage.Put(ctx, key, contentType, data)
}

func newPipeline(username, listingSlug string) *media.Pipeline {
	return &media.Pipeline{
		Store:    r2Store{},
		Compress: imageutil.Process,
		Key: func(filename string) string {
			return storage.ObjectKey(username, listingSlug, filename)
		},
	}
}

// GetAllowance form gösterilmeden önce çağrılan salt okunur gate ucu
func GetAllowance(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	decision, err := middleware.EvaluateAllowance(claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  "Could not verify posting allowance",
			"reason": allowance.ReasonCheckFailed,
		})
	}

	return c.JSON(decision)
}

// CreateListing multipart formdan yeni ilan oluşturur. Akış: doğrulama →
// media pipeline (eşzamanlı yükleme) → tek transaction'da ilan yazımı +
// hak düşümü. Pipeline bitmeden yazım, yazım bitmeden düşüm başlamaz.
func CreateListing(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var user model.User
	if err := database.GetDB().First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if user.UserType == model.UserTypeDeveloper {
		return createDeveloperListing(c, &user)
	}
	return createIndividualListing(c, &user)
}

func createIndividualListing(c *fiber.Ctx, user *model.User) error {
	decision := c.Locals("allowance").(allowance.Decision)

	price, _ := strconv.ParseFloat(c.FormValue("price"), 64)
	bhk, _ := strconv.Atoi(c.FormValue("bhk"))
	facilities := formValues(c, "facilities")

	coverFile, coverErr := c.FormFile("cover_image")

	in := validation.IndividualInput{
		Title:        c.FormValue("title"),
		PropertyType: model.PropertyType(c.FormValue("property_type")),
		BHK:          bhk,
		State:        c.FormValue("state"),
		City:         c.FormValue("city"),
		Locality:     c.FormValue("locality"),
		Price:        price,
		Description:  c.FormValue("description"),
		Facilities:   facilities,
		HasCover:     coverErr == nil,
	}

	if err := validation.ValidateIndividual(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validation.ValidateImage(coverFile); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	cover, err := media.ReadAsset(coverFile)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	gallery, skipped, err := collectGalleryFiles(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if len(skipped) > 0 {
		log.Printf("Gallery files skipped for user %d: %v", user.ID, skipped)
	}

	res, err := newPipeline(user.Username, in.Title).Process(c.Context(), &cover, gallery)
	if err != nil {
		log.Printf("Media pipeline failed for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Image upload failed. Please try again.",
		})
	}

	// BHK sadece uygun tiplerde saklanır
	if !model.BHKEligible(in.PropertyType) {
		in.BHK = 0
	}

	subID := decision.SubscriptionID
	listing := model.Listing{
		UserID:         user.ID,
		UserType:       model.UserTypeIndividual,
		Status:         model.ListingStatusActive,
		Title:          in.Title,
		Description:    in.Description,
		PropertyType:   in.PropertyType,
		BHK:            in.BHK,
		Price:          in.Price,
		State:          in.State,
		City:           in.City,
		Locality:       in.Locality,
		Address:        c.FormValue("address"),
		Facilities:     toJSON(in.Facilities),
		CoverImageURL:  res.EffectiveCover(),
		SubscriptionID: &subID,
	}

	if err := writeListing(&listing, res, func(tx *gorm.DB) error {
		// Abonelik hakkını aynı transaction'da tüket. Unique index
		// sayesinde aynı abonelik ikinci kez tüketilemez.
		var used int64
		if err := tx.Model(&model.Listing{}).
			Where("user_id = ? AND subscription_id = ? AND id <> ?", user.ID, subID, listing.ID).
			Count(&used).Error; err != nil {
			return err
		}
		if used >= allowance.ListingsPerSubscription {
			return errLimitReached
		}
		if err := tx.Create(&model.SubscriptionUsage{
			SubscriptionID: subID,
			ListingID:      listing.ID,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&model.UserSubscription{}).
			Where("id = ?", subID).
			UpdateColumn("listings_used", gorm.Expr("listings_used + 1")).Error
	}); err != nil {
		logOrphanedMedia(res)
		if errors.Is(err, errLimitReached) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":  "Posting not allowed",
				"reason": allowance.ReasonLimitReached,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to post property",
		})
	}

	return created(c, &listing, res, skipped)
}

func createDeveloperListing(c *fiber.Ctx, user *model.User) error {
	minPrice, _ := strconv.ParseFloat(c.FormValue("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(c.FormValue("max_price"), 64)
	totalUnits, _ := strconv.Atoi(c.FormValue("total_units"))
	totalTowers, _ := strconv.Atoi(c.FormValue("total_towers"))
	projectArea, _ := strconv.ParseFloat(c.FormValue("project_area_acres"), 64)
	reraRegistered := strings.EqualFold(c.FormValue("rera_registered"), "yes") ||
		c.FormValue("rera_registered") == "true"

	var completionDate *time.Time
	if v := c.FormValue("completion_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			completionDate = &t
		}
	}

	gallery, skipped, err := collectGalleryFiles(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if len(skipped) > 0 {
		log.Printf("Gallery files skipped for user %d: %v", user.ID, skipped)
	}

	in := validation.DeveloperInput{
		ProjectName:        c.FormValue("project_name"),
		SchemeType:         model.SchemeType(c.FormValue("scheme_type")),
		State:              c.FormValue("state"),
		City:               c.FormValue("city"),
		Locality:           c.FormValue("locality"),
		MinPrice:           minPrice,
		MaxPrice:           maxPrice,
		PossessionStatus:   model.PossessionStatus(c.FormValue("possession_status")),
		CompletionDate:     completionDate,
		ReraRegistered:     reraRegistered,
		ReraNumber:         c.FormValue("rera_number"),
		ContactPhone:       c.FormValue("contact_phone"),
		Description:        c.FormValue("description"),
		ResidentialOptions: formValues(c, "residential_options"),
		CommercialOptions:  formValues(c, "commercial_options"),
		GalleryCount:       len(gallery),
	}

	if err := validation.ValidateDeveloper(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var cover *media.Asset
	if coverFile, err := c.FormFile("cover_image"); err == nil {
		if err := validation.ValidateImage(coverFile); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		a, err := media.ReadAsset(coverFile)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		cover = &a
	}

	res, err := newPipeline(user.Username, in.ProjectName).Process(c.Context(), cover, gallery)
	if err != nil {
		log.Printf("Media pipeline failed for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Image upload failed. Please try again.",
		})
	}

	expiry := time.Now().Add(model.DeveloperListingLifetime)
	listing := model.Listing{
		UserID:             user.ID,
		UserType:           model.UserTypeDeveloper,
		Status:             model.ListingStatusActive,
		Title:              in.ProjectName,
		Description:        in.Description,
		State:              in.State,
		City:               in.City,
		Locality:           in.Locality,
		Address:            c.FormValue("address"),
		SchemeType:         in.SchemeType,
		ResidentialOptions: toJSON(in.ResidentialOptions),
		CommercialOptions:  toJSON(in.CommercialOptions),
		MinPrice:           in.MinPrice,
		MaxPrice:           in.MaxPrice,
		PossessionStatus:   in.PossessionStatus,
		CompletionDate:     in.CompletionDate,
		ReraRegistered:     in.ReraRegistered,
		ReraNumber:         in.ReraNumber,
		TotalUnits:         totalUnits,
		TotalTowers:        totalTowers,
		ProjectAreaAcres:   projectArea,
		ContactPhone:       in.ContactPhone,
		ExpiryDate:         &expiry,
		Facilities:         toJSON(formValues(c, "facilities")),
		CoverImageURL:      res.EffectiveCover(),
	}

	if err := writeListing(&listing, res, func(tx *gorm.DB) error {
		// Koşullu azaltma: bakiye sıfıra düştüyse hiçbir satır
		// etkilenmez ve tüm gönderim geri alınır
		debit := tx.Model(&model.User{}).
			Where("id = ? AND property_credits > 0", user.ID).
			UpdateColumn("property_credits", gorm.Expr("property_credits - 1"))
		if debit.Error != nil {
			return debit.Error
		}
		if debit.RowsAffected == 0 {
			return errNoCredits
		}
		return nil
	}); err != nil {
		logOrphanedMedia(res)
		if errors.Is(err, errNoCredits) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":    "Posting not allowed",
				"reason":   allowance.ReasonNoCredits,
				"redirect": "/plans",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to post property",
		})
	}

	return created(c, &listing, res, skipped)
}

// writeListing ilanı, resimlerini ve hak düşümünü tek transaction'da
// yazar. debit başarısız olursa ilan da geri alınır.
func writeListing(listing *model.Listing, res *media.Result, debit func(tx *gorm.DB) error) error {
	return database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(listing).Error; err != nil {
			return err
		}

		if res.CoverURL != "" {
			img := model.ListingImage{ListingID: listing.ID, URL: res.CoverURL, IsCover: true}
			if err := tx.Create(&img).Error; err != nil {
				return err
			}
		}
		for i, url := range res.GalleryURLs {
			img := model.ListingImage{
				ListingID: listing.ID,
				URL:       url,
				Order:     i,
				IsCover:   res.CoverURL == "" && i == 0,
			}
			if err := tx.Create(&img).Error; err != nil {
				return err
			}
		}

		return debit(tx)
	})
}

// logOrphanedMedia yazım başarısız olduğunda yüklenmiş objelerin
// URL'lerini loglar; temizleme işi yoktur, operatör izi buradan sürer
func logOrphanedMedia(res *media.Result) {
	urls := append([]string{}, res.GalleryURLs...)
	if res.CoverURL != "" {
		urls = append(urls, res.CoverURL)
	}
	log.Printf("Orphaned media after failed listing write: %v", urls)
}

func created(c *fiber.Ctx, listing *model.Listing, res *media.Result, skipped []string) error {
	var full model.Listing
	err := database.GetDB().Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("listing_images.\"order\" ASC")
	}).First(&full, listing.ID).Error
	if err == nil {
		listing = &full
	} else {
		// İlan zaten commit edildi; okuma hatası 201'i düşürmez,
		// bellekteki kayıtla cevap verilir
		log.Printf("Could not reload listing %d after create: %v", listing.ID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(createdBody(listing, res, skipped))
}

func createdBody(listing *model.Listing, res *media.Result, skipped []string) fiber.Map {
	body := fiber.Map{"listing": listing}
	if len(res.Fallbacks) > 0 {
		body["uncompressed_files"] = res.Fallbacks
	}
	if len(skipped) > 0 {
		body["skipped_files"] = skipped
	}
	return body
}

// UpdateListing düzenleme penceresi içinde tüm alanları yeniden yazar;
// kapak resmi opsiyonel olarak değiştirilebilir
func UpdateListing(c *fiber.Ctx) error {
	listing := c.Locals("listing").(*model.Listing)

	var user model.User
	if err := database.GetDB().First(&user, listing.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	listing.Title = firstNonEmpty(c.FormValue("title"), c.FormValue("project_name"), listing.Title)
	if v := c.FormValue("description"); v != "" {
		listing.Description = v
	}
	if v := c.FormValue("state"); v != "" {
		listing.State = v
	}
	if v := c.FormValue("city"); v != "" {
		listing.City = v
	}
	if v := c.FormValue("locality"); v != "" {
		listing.Locality = v
	}
	if v := c.FormValue("address"); v != "" {
		listing.Address = v
	}

	if listing.UserType == model.UserTypeIndividual {
		if v := c.FormValue("price"); v != "" {
			if price, err := strconv.ParseFloat(v, 64); err == nil && price > 0 {
				listing.Price = price
			}
		}
		if v := c.FormValue("property_type"); v != "" {
			listing.PropertyType = model.PropertyType(v)
		}
		if v := c.FormValue("bhk"); v != "" && model.BHKEligible(listing.PropertyType) {
			if bhk, err := strconv.Atoi(v); err == nil {
				listing.BHK = bhk
			}
		}
	} else {
		if v := c.FormValue("min_price"); v != "" {
			if p, err := strconv.ParseFloat(v, 64); err == nil {
				listing.MinPrice = p
			}
		}
		if v := c.FormValue("max_price"); v != "" {
			if p, err := strconv.ParseFloat(v, 64); err == nil {
				listing.MaxPrice = p
			}
		}
		if v := c.FormValue("possession_status"); v != "" {
			listing.PossessionStatus = model.PossessionStatus(v)
		}
		if v := c.FormValue("contact_phone"); v != "" && validation.ValidPhone(v) {
			listing.ContactPhone = v
		}
	}

	if fs := formValues(c, "facilities"); len(fs) > 0 {
		listing.Facilities = toJSON(fs)
	}

	// Opsiyonel kapak değişimi
	if coverFile, err := c.FormFile("cover_image"); err == nil {
		if err := validation.ValidateImage(coverFile); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		cover, err := media.ReadAsset(coverFile)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		res, err := newPipeline(user.Username, listing.Slug).Process(c.Context(), &cover, nil)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Image upload failed. Please try again.",
			})
		}
		oldCover := listing.CoverImageURL
		listing.CoverImageURL = res.CoverURL

		if oldCover != "" {
			if err := storage.Delete(c.Context(), oldCover); err != nil {
				log.Printf("Could not delete old cover image: %v", err)
			}
		}
	}

	if err := database.GetDB().Save(listing).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update listing",
		})
	}

	return c.JSON(listing)
}

// ListListings public galeri; user_type, city ve tip filtreleri alır
func ListListings(c *fiber.Ctx) error {
	query := database.GetDB().
		Where("status = ?", model.ListingStatusActive).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("listing_images.\"order\" ASC")
		}).
		Order("created_at desc")

	if ut := c.Query("user_type"); ut != "" {
		if !model.UserType(ut).Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid user_type filter",
			})
		}
		query = query.Where("user_type = ?", ut)
	}
	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}
	if pt := c.Query("property_type"); pt != "" {
		query = query.Where("property_type = ?", pt)
	}

	var listings []model.Listing
	if err := query.Find(&listings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch listings",
		})
	}

	return c.JSON(listings)
}

// GetListingBySlug ilan detayını URL'den alır
func GetListingBySlug(c *fiber.Ctx) error {
	username := c.Params("username")
	listingSlug := c.Params("listing_slug")

	var user model.User
	if err := database.GetDB().Where("username = ?", username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch user",
		})
	}

	var listing model.Listing
	if err := database.GetDB().Where("user_id = ? AND status = ? AND slug = ?",
		user.ID, model.ListingStatusActive, listingSlug).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("listing_images.\"order\" ASC")
		}).
		First(&listing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Listing not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch listing",
		})
	}

	return c.JSON(fiber.Map{
		"user":    user.GetPublicProfile(),
		"listing": listing,
	})
}

// ListMyListings kullanıcının kendi ilanlarını listeler
func ListMyListings(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var listings []model.Listing
	if err := database.GetDB().Where("user_id = ?", claims.UserID).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("listing_images.\"order\" ASC")
		}).
		Order("created_at desc").
		Find(&listings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch listings",
		})
	}

	return c.JSON(listings)
}

// DeleteListing ilanı soft-remove yapar; kayıt ve resimler silinmez
func DeleteListing(c *fiber.Ctx) error {
	listing := c.Locals("listing").(*model.Listing)

	if err := database.GetDB().Model(listing).
		Update("status", model.ListingStatusRemoved).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not remove listing",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func collectGalleryFiles(c *fiber.Ctx) ([]media.Asset, []string, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil, nil
	}
	return media.CollectGallery(form.File["gallery_images"])
}

func formValues(c *fiber.Ctx, key string) []string {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	var out []string
	for _, v := range form.Value[key] {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func toJSON(values []string) datatypes.JSON {
	if len(values) == 0 {
		return datatypes.JSON([]byte("[]"))
	}
	b, err := json.Marshal(values)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(b)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
