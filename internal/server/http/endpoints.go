// Package http is the registration HTTP transport: a gin router that binds
// the health-profile form, calls the registration service and answers in
// plain text.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/symptoms/internal/common"
	"github.com/dmitrijs2005/symptoms/internal/server/models"
	"github.com/gin-gonic/gin"
)

// Reply bodies of the registration form endpoint.
const (
	MsgAllFieldsRequired = "All field are required"
	MsgEmailTaken        = "Someone already register using this email"
	MsgInserted          = "New record inserted sucessfully"
	MsgInternal          = "Internal error"
	MsgBadRequest        = "Invalid request body"
)

// Registrar is the part of the registration service the endpoints use.
type Registrar interface {
	Register(ctx context.Context, sub models.Submission) (*models.RegisteredUser, error)
	Lookup(ctx context.Context, email string) (*models.RegisteredUser, error)
}

// Pinger reports whether storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HttpEndpoints struct {
	registrations Registrar
	storage       Pinger
}

func NewHTTPHandler(r Registrar, storage Pinger) *HttpEndpoints {
	return &HttpEndpoints{registrations: r, storage: storage}
}

func (h *HttpEndpoints) AddRegistrationAPI(rg *gin.RouterGroup) {
	rg.POST("/", h.register)
	rg.POST("/register", h.register)
	rg.GET("/register/:email", h.lookup)
}

func (h *HttpEndpoints) AddHealthAPI(rg *gin.RouterGroup) {
	rg.GET("/healthz", h.healthz)
}

func (h *HttpEndpoints) register(c *gin.Context) {
	log := loggerFrom(c)

	var sub models.Submission
	if err := c.ShouldBind(&sub); err != nil {
		log.Warn(c, "bad registration body", "error", err)
		c.String(http.StatusBadRequest, MsgBadRequest)
		return
	}

	user, err := h.registrations.Register(c.Request.Context(), sub)
	if err != nil {
		status, body := registerReply(err)
		if status >= http.StatusInternalServerError {
			log.Error(c, "registration failed", "email", sub.Email, "error", err)
		} else {
			log.Info(c, "registration rejected", "email", sub.Email, "reason", err.Error())
		}
		c.String(status, body)
		return
	}

	log.Info(c, "registration stored", "email", user.Email, "id", user.ID)
	c.String(http.StatusOK, MsgInserted)
}

// registerReply maps a Register error to the status and body sent back.
func registerReply(err error) (int, string) {
	var ve *common.ValidationError
	var ce *common.ConnectionError

	switch {
	case errors.As(err, &ve):
		if ve.Field != "" {
			return http.StatusBadRequest, fmt.Sprintf("Invalid value for field %q", ve.Field)
		}
		return http.StatusBadRequest, MsgAllFieldsRequired
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict, MsgEmailTaken
	case errors.As(err, &ce):
		return http.StatusServiceUnavailable, ce.Error()
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}

func (h *HttpEndpoints) lookup(c *gin.Context) {
	user, err := h.registrations.Lookup(c.Request.Context(), c.Param("email"))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		case errors.Is(err, common.ErrConnection):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			loggerFrom(c).Error(c, "lookup failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": MsgInternal})
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *HttpEndpoints) healthz(c *gin.Context) {
	if err := h.storage.Ping(c.Request.Context()); err != nil {
		loggerFrom(c).Warn(c, "health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
