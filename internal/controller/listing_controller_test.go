package controller

import (
	"basera_backend/internal/media"
	"basera_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreatedBody(t *testing.T) {
	listing := &model.Listing{Title: "2 BHK in Andheri"}

	t.Run("clean upload has only the listing", func(t *testing.T) {
		body := createdBody(listing, &media.Result{}, nil)
		assert.Equal(t, listing, body["listing"])
		assert.NotContains(t, body, "uncompressed_files")
		assert.NotContains(t, body, "skipped_files")
	})

	t.Run("compression fallbacks are reported", func(t *testing.T) {
		res := &media.Result{Fallbacks: []string{"salon.jpg"}}
		body := createdBody(listing, res, nil)
		assert.Equal(t, []string{"salon.jpg"}, body["uncompressed_files"])
		assert.NotContains(t, body, "skipped_files")
	})

	t.Run("skipped files are reported", func(t *testing.T) {
		body := createdBody(listing, &media.Result{}, []string{"plan.pdf"})
		assert.Equal(t, []string{"plan.pdf"}, body["skipped_files"])
		assert.NotContains(t, body, "uncompressed_files")
	})
}
