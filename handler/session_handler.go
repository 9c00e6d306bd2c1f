package handler

import (
	"context"
	"go-ledger-api/common"
	"go-ledger-api/logger"
	"go-ledger-api/model"
	"net/http"
)

type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*model.AuthResponse, error)
}

type SessionHandler struct {
	auth Authenticator
}

func NewSessionHandler(auth Authenticator) *SessionHandler {
	return &SessionHandler{auth: auth}
}

// CreateSession godoc
// @Summary      Log in a user
// @Description  Verifies credentials and returns a signed token together with the user.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        credentials body model.AuthenticateRequest true "User credentials"
// @Success      200  {object}  model.AuthResponse
// @Failure      400  {object}  common.AppError "Invalid body"
// @Failure      401  {object}  common.AppError "Incorrect email or password"
// @Router       /api/v1/sessions [post]
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.AuthenticateRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	resp, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		return mapServiceError(err, "Could not create session")
	}

	logger.Log.WithField("user_id", resp.User.ID).Info("Session created")
	writeJSON(w, http.StatusOK, resp)
	return nil
}
