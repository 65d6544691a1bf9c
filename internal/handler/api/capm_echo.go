package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"FinBeta/internal/domain/models"
	"FinBeta/internal/service/ratelimit"
	"FinBeta/internal/usecase"
	xhttp "FinBeta/pkg/http"
	xlogger "FinBeta/pkg/logger"
)

// HealthCheck probes one dependency; nil means healthy.
type HealthCheck func(ctx context.Context) error

// CAPMEchoHandler serves estimations over HTTP.
type CAPMEchoHandler struct {
	logger  *xlogger.Logger
	uc      *usecase.EstimateUseCase
	limiter *ratelimit.Limiter
	checks  map[string]HealthCheck
}

func NewCAPMEchoHandler(logger *xlogger.Logger, uc *usecase.EstimateUseCase, limiter *ratelimit.Limiter, checks map[string]HealthCheck) *CAPMEchoHandler {
	return &CAPMEchoHandler{logger: logger, uc: uc, limiter: limiter, checks: checks}
}

func (h *CAPMEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	g := e.Group("/api")
	g.GET("/capm", h.Estimate)
}

func (h *CAPMEchoHandler) Estimate(c echo.Context) error {
	if h.limiter != nil && !h.limiter.Allow(c.RealIP()) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many estimation requests"))
	}

	req := &models.CAPMRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	er, err := usecase.BuildRequest(*req)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}

	res, err := h.uc.Estimate(c.Request().Context(), er)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=300")
	return xhttp.SuccessResponse(c, res)
}

func (h *CAPMEchoHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{}
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("health check failed", xlogger.String("dependency", name), xlogger.Error(err))
			status[name] = err.Error()
			healthy = false
			continue
		}
		status[name] = "ok"
	}
	if !healthy {
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, status)
	}
	return xhttp.SuccessResponse(c, status)
}

func toAppError(err error) *xhttp.AppError {
	switch models.KindOf(err) {
	case models.KindUnsupportedInterval:
		return xhttp.BadRequestError("interval", err.Error()).WithError(err)
	case models.KindFetch:
		return xhttp.BadGatewayError("ERR_FETCH", err.Error()).WithError(err)
	case models.KindInsufficientData:
		return xhttp.UnprocessableError("ERR_INSUFFICIENT_DATA", err.Error()).WithError(err)
	case models.KindRegression:
		return xhttp.UnprocessableError("ERR_REGRESSION", err.Error()).WithError(err)
	}
	if errors.Is(err, usecase.ErrInvalidRequest) {
		return xhttp.BadRequestError("", err.Error()).WithError(err)
	}
	return xhttp.InternalError("estimation failed").WithError(err)
}
