package handler

import (
	"context"
	"go-ledger-api/common"
	"go-ledger-api/logger"
	"go-ledger-api/model"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type UserServicer interface {
	CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

type UserHandler struct {
	service UserServicer
}

func NewUserHandler(service UserServicer) *UserHandler {
	return &UserHandler{service: service}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a user with a unique email. The password is stored as a bcrypt hash.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user body model.CreateUserRequest true "User registration info"
// @Success      201  {object}  model.User
// @Failure      400  {object}  common.AppError "Invalid body or email already registered"
// @Failure      500  {object}  common.AppError
// @Router       /api/v1/users [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateUserRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	logger.Log.WithFields(logrus.Fields{
		"email": req.Email,
	}).Info("Register request received")

	user, err := h.service.CreateUser(r.Context(), req)
	if err != nil {
		return mapServiceError(err, "Could not create user")
	}

	writeJSON(w, http.StatusCreated, user)
	return nil
}

// Profile godoc
// @Summary      Show the authenticated user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.User
// @Failure      401  {object}  common.AppError "Missing or invalid token"
// @Failure      404  {object}  common.AppError "User not found"
// @Router       /api/v1/profile [get]
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := authenticatedUser(r)
	if appErr != nil {
		return appErr
	}

	user, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		return mapServiceError(err, "Could not retrieve profile")
	}

	writeJSON(w, http.StatusOK, user)
	return nil
}
