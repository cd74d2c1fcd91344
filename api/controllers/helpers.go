package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dineline-app/dineline-backend/api/middleware"
	"github.com/dineline-app/dineline-backend/api/validators"
	pkgerrors "github.com/dineline-app/dineline-backend/pkg/errors"
)

// parseActorID extracts the authenticated user from the request context.
func parseActorID(r *http.Request) (uuid.UUID, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	parsed, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return parsed, nil
}

// parsePathID reads a uuid route parameter such as restaurantId or orderId.
func parsePathID(r *http.Request, param string) (uuid.UUID, error) {
	return validators.ParseUUIDParam(chi.URLParam(r, param), param)
}
