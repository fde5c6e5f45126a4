package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emarket/emarket-api/internal/domains/users/domain"
	"github.com/emarket/emarket-api/internal/domains/users/ports"
	"github.com/emarket/emarket-api/internal/shared/respond"
)

// API carries the user-facing profile handlers.
type API struct {
	repo ports.Repository
}

// NewAPI wires dependencies.
func NewAPI(repo ports.Repository) API {
	return API{repo: repo}
}

// Register mounts the user routes on the given group. The group is expected to
// run RequireSession first.
func (api API) Register(group *gin.RouterGroup) {
	group.GET("/profile", api.GetProfile)
}

// Profile is the transport shape for the caller's identity.
type Profile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// GET /profile
func (api API) GetProfile(c *gin.Context) {
	userID, ok := CallerID(c)
	if !ok {
		respond.Fail(c, http.StatusUnauthorized, "Unauthenticated.")
		return
	}
	user, err := api.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			respond.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		respond.Fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	respond.OK(c, fromDomainUser(user))
}

func fromDomainUser(user *domain.User) Profile {
	return Profile{ID: user.ID, Name: user.Name, Email: user.Email, CreatedAt: user.CreatedAt}
}
