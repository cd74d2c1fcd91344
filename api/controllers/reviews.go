package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dineline-app/dineline-backend/api/responses"
	"github.com/dineline-app/dineline-backend/api/validators"
	"github.com/dineline-app/dineline-backend/internal/reviews"
	pkgerrors "github.com/dineline-app/dineline-backend/pkg/errors"
	"github.com/dineline-app/dineline-backend/pkg/logger"
)

const maxReviewCommentLength = 2000

type createReviewRequest struct {
	RestaurantID string  `json:"restaurant_id" validate:"required,uuid"`
	OrderID      *string `json:"order_id,omitempty" validate:"omitempty,uuid"`
	Rating       int     `json:"rating" validate:"required,min=1,max=5"`
	Comment      *string `json:"comment,omitempty"`
}

func (r createReviewRequest) toInput() (reviews.CreateReviewInput, error) {
	restaurantID, err := uuid.Parse(r.RestaurantID)
	if err != nil {
		return reviews.CreateReviewInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid restaurant id")
	}

	input := reviews.CreateReviewInput{
		RestaurantID: restaurantID,
		Rating:       r.Rating,
	}
	if r.OrderID != nil {
		orderID, err := uuid.Parse(*r.OrderID)
		if err != nil {
			return reviews.CreateReviewInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
		}
		input.OrderID = &orderID
	}
	if r.Comment != nil {
		comment := validators.SanitizeString(*r.Comment, maxReviewCommentLength)
		if comment != "" {
			input.Comment = &comment
		}
	}
	return input, nil
}

type moderateReviewRequest struct {
	IsApproved *bool `json:"is_approved" validate:"required"`
}

// CreateReview submits a review for a restaurant. New reviews always start
// unapproved and stay invisible until an admin approves them.
func CreateReview(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reviews service unavailable"))
			return
		}

		actorID, err := parseActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createReviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		review, err := svc.Create(r.Context(), actorID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, review)
	}
}

// ListRestaurantReviews returns the approved reviews for a restaurant.
func ListRestaurantReviews(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reviews service unavailable"))
			return
		}

		restaurantID, err := parsePathID(r, "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForRestaurant(r.Context(), restaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ListMyReviews returns the acting user's reviews in every approval state.
func ListMyReviews(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reviews service unavailable"))
			return
		}

		actorID, err := parseActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForUser(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// DeleteReview removes a review. Authors can delete their own; admins can
// delete any.
func DeleteReview(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reviews service unavailable"))
			return
		}

		actorID, err := parseActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reviewID, err := parsePathID(r, "reviewId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), actorID, reviewID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// ListPendingReviews returns the moderation queue for admins.
func ListPendingReviews(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reviews service unavailable"))
			return
		}

		actorID, err := parseActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListPending(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ModerateReview approves or rejects a pending review and refreshes the
// restaurant's rating aggregate when the approved set changes.
func ModerateReview(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reviews service unavailable"))
			return
		}

		actorID, err := parseActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reviewID, err := parsePathID(r, "reviewId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload moderateReviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		review, err := svc.Moderate(r.Context(), actorID, reviewID, *payload.IsApproved)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, review)
	}
}
