package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/clock"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
)

// --------------------------------------------------
// Identity
// --------------------------------------------------

func businessID(c *gin.Context) uint {
	return c.MustGet(middleware.ContextBusinessID).(uint)
}

func actorID(c *gin.Context) uint {
	return c.MustGet(middleware.ContextActorID).(uint)
}

// ownSpecialist falls back to the specialist bound to the token when the
// request names none.
func ownSpecialist(c *gin.Context, requested *uint) *uint {
	if requested != nil {
		return requested
	}
	return middleware.SpecialistID(c)
}

// --------------------------------------------------
// Path / query parsing (errors are httperr validation errors)
// --------------------------------------------------

func uintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, httperr.Validation("invalid_"+name, c.Param(name))
	}
	return uint(v), nil
}

func optionalUintQuery(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return nil, httperr.Validation("invalid_"+name, raw)
	}
	id := uint(v)
	return &id, nil
}

func intQuery(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, httperr.Validation("invalid_"+name, raw)
	}
	return v, nil
}

func dateQuery(c *gin.Context, name string) (clock.Date, error) {
	raw := c.Query(name)
	if raw == "" {
		return clock.Date{}, httperr.Validation(name+"_required", "")
	}
	d, err := clock.ParseDate(raw)
	if err != nil {
		return clock.Date{}, httperr.Validation("invalid_date", raw)
	}
	return d, nil
}

func optionalDate(raw string) (clock.Date, error) {
	if raw == "" {
		return clock.Date{}, nil
	}
	d, err := clock.ParseDate(raw)
	if err != nil {
		return clock.Date{}, httperr.Validation("invalid_date", raw)
	}
	return d, nil
}

func optionalInstant(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, httperr.Validation("invalid_datetime", raw)
	}
	return t, nil
}

// csv splits "a,b" query values, dropping blanks.
func csv(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func badRequest(c *gin.Context) {
	httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
}
