package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"csemotors/web/internal/models"
	"csemotors/web/internal/service"
	"csemotors/web/internal/validation"
	"csemotors/web/internal/view"
)

const (
	msgReviewNotFound     = "Sorry, the review could not be found."
	msgReviewDeleteFailed = "Sorry, the review could not be deleted."
	msgReviewUpdateFailed = "Sorry, the review update failed."
	msgReviewForbidden    = "Access denied: You do not have permission to edit this review."
)

// AddReview records a review for the logged in account. Rejected input is
// shown again on the vehicle page.
func (h HandlerSet) AddReview(c *gin.Context) {
	var form validation.Review
	_ = c.ShouldBind(&form)

	invID, validID := validation.ParseID(form.InvID)
	back := "/"
	if validID {
		back = fmt.Sprintf("/inv/detail/%d", invID)
	}

	_, vehicle, err := h.reviews.Add(c.Request.Context(), actor(c), form)
	if err != nil {
		switch errs, ok := validationErrors(err); {
		case ok && validID:
			draft := reviewDraft{errs: errs, text: strings.TrimSpace(form.Text), rating: strings.TrimSpace(form.Rating)}
			h.vehicleDetail(c, http.StatusBadRequest, invID, draft)
		case ok:
			h.Fail(c, http.StatusNotFound, msgVehicleNotFound)
		case errors.Is(err, service.ErrInvalidID), errors.Is(err, service.ErrNotFound):
			h.Fail(c, http.StatusNotFound, msgVehicleNotFound)
		case errors.Is(err, service.ErrWriteFailed):
			h.log.Error().Err(err).Msg("review not stored")
			h.Redirect(c, back, "Review submission failed. Please try again.")
		default:
			h.serverError(c, err)
		}
		return
	}

	h.Redirect(c, back, fmt.Sprintf("Thank you! A review has been added for %s.", vehicle.Name()))
}

func (h HandlerSet) EditReviewView(c *gin.Context) {
	review, ok := h.editableReview(c, c.Param("reviewId"))
	if !ok {
		return
	}

	page := h.page(c, "Edit Review", 0)
	page.Content = view.ReviewFormContent{
		ReviewID: review.ID,
		Vehicle:  review.VehicleName(),
		Text:     review.Text,
		Rating:   strconv.Itoa(review.Rating),
	}
	h.html(c, http.StatusOK, "review/edit", page)
}

func (h HandlerSet) UpdateReview(c *gin.Context) {
	ctx := c.Request.Context()

	var form validation.ReviewUpdate
	_ = c.ShouldBind(&form)

	_, err := h.reviews.Update(ctx, actor(c), form)
	if err == nil {
		h.Redirect(c, "/account/", "Your review was successfully updated.")
		return
	}

	switch errs, ok := validationErrors(err); {
	case ok:
		form.Normalize()
		id, _ := validation.ParseID(form.ReviewID)
		content := view.ReviewFormContent{ReviewID: id, Text: form.Text, Rating: form.Rating}
		if review, err := h.reviews.Editable(ctx, actor(c), id); err == nil {
			content.Vehicle = review.VehicleName()
		}
		page := h.page(c, "Edit Review", 0)
		page.Errors = errs
		page.Content = content
		h.html(c, http.StatusBadRequest, "review/edit", page)
	case errors.Is(err, service.ErrForbidden):
		h.Redirect(c, "/account/", msgReviewForbidden)
	case errors.Is(err, service.ErrInvalidID), errors.Is(err, service.ErrNotFound):
		h.Redirect(c, "/account/", msgReviewNotFound)
	case errors.Is(err, service.ErrWriteFailed):
		h.Redirect(c, "/account/", msgReviewUpdateFailed)
	default:
		h.serverError(c, err)
	}
}

func (h HandlerSet) DeleteReviewView(c *gin.Context) {
	review, ok := h.editableReview(c, c.Param("reviewId"))
	if !ok {
		return
	}

	page := h.page(c, "Delete Review", 0)
	page.Content = view.ReviewDeleteContent{
		ReviewID: review.ID,
		Vehicle:  review.VehicleName(),
		Text:     review.Text,
		Date:     view.FormatDate(review.Date),
	}
	h.html(c, http.StatusOK, "review/delete-confirm", page)
}

// DeleteReview treats a review that is already gone as a notice, not an error.
func (h HandlerSet) DeleteReview(c *gin.Context) {
	_, err := h.reviews.Delete(c.Request.Context(), actor(c), c.PostForm("review_id"))
	switch {
	case err == nil:
		h.Redirect(c, "/account/", "The review was successfully deleted.")
	case errors.Is(err, service.ErrForbidden):
		h.Redirect(c, "/account/", msgReviewForbidden)
	case errors.Is(err, service.ErrInvalidID), errors.Is(err, service.ErrNotFound):
		h.Redirect(c, "/account/", msgReviewDeleteFailed)
	default:
		h.serverError(c, err)
	}
}

// editableReview loads the review named by rawID for the current actor. On
// failure the response is already written.
func (h HandlerSet) editableReview(c *gin.Context, rawID string) (models.Review, bool) {
	id, ok := validation.ParseID(rawID)
	if !ok {
		h.Redirect(c, "/account/", msgReviewNotFound)
		return models.Review{}, false
	}

	review, err := h.reviews.Editable(c.Request.Context(), actor(c), id)
	switch {
	case err == nil:
		return review, true
	case errors.Is(err, service.ErrForbidden):
		h.Redirect(c, "/account/", msgReviewForbidden)
	case errors.Is(err, service.ErrNotFound):
		h.Redirect(c, "/account/", msgReviewNotFound)
	default:
		h.serverError(c, err)
	}
	return models.Review{}, false
}
