package auth

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"barbershop/internal/config"
	apperrors "barbershop/internal/errors"
	"barbershop/internal/respond"
)

type Controller struct {
	gate   *Gate
	cfg    config.AuthConfig
	logger *zap.Logger
}

func NewController(gate *Gate, cfg config.AuthConfig, logger *zap.Logger) *Controller {
	return &Controller{
		gate:   gate,
		cfg:    cfg,
		logger: logger,
	}
}

// Login handles the admin login form. The password is read from the form
// field "password".
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	if err := r.ParseForm(); err != nil {
		logger.Warn("invalid login form", zap.Error(err))
		respond.Validation(w, logger, traceID, "invalid form body", apperrors.ValidationDetail{
			Field:   "password",
			Message: "request body must be a form",
		})
		return
	}

	sess, err := c.gate.Login(r.Context(), SessionFromContext(r.Context()), r.PostForm.Get("password"))
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	http.SetCookie(w, c.cookie(sess.ID, int(c.gate.TTL().Seconds())))
	http.Redirect(w, r, c.cfg.LandingPath, http.StatusSeeOther)
}

func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	if err := c.gate.Logout(r.Context(), SessionFromContext(r.Context())); err != nil {
		c.logger.Warn("logout failed", zap.Error(err))
	}

	http.SetCookie(w, c.cookie("", -1))
	http.Redirect(w, r, c.cfg.LoginPath, http.StatusSeeOther)
}

func (c *Controller) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     c.cfg.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
