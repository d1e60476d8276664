package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gistapi/gistapi/pkg/github"
	"github.com/gistapi/gistapi/pkg/search"
)

// genericErrorMessage is the only message shown to callers for remote or
// unclassified failures. Specifics stay in the server log.
const genericErrorMessage = "Internal error. Please contact technical support."

// ping provides a static response to a simple GET request.
func ping(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "pong")
}

// healthcheck reports process liveness.
func healthcheck(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]any{
		"gistapi": "ok",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// searchRequest is the POST /api/v1/search body: exactly these two keys,
// both required.
type searchRequest struct {
	Username string `json:"username" validate:"required"`
	Pattern  string `json:"pattern" validate:"required"`
}

// search provides matches for a single pattern across a single user's gists.
func (s *Server) search(ctx echo.Context) error {
	req, err := bindSearchRequest(ctx)
	if err != nil {
		return err
	}

	result, err := s.searcher.Search(ctx.Request().Context(), req.Username, req.Pattern)
	if err != nil {
		return s.searchError(err)
	}

	return ctx.JSON(http.StatusOK, result)
}

// bindSearchRequest decodes and validates the search body. Unknown keys are
// rejected, matching the strict request schema.
func bindSearchRequest(ctx echo.Context) (*searchRequest, error) {
	req := new(searchRequest)

	dec := json.NewDecoder(ctx.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	if err := ctx.Validate(req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, validationMessages(err))
	}

	return req, nil
}

// searchError maps engine failures to API responses. Remote errors are
// logged with their status and payload but surface only as a generic 500.
func (s *Server) searchError(err error) error {
	var patternErr *search.InvalidPatternError
	if errors.As(err, &patternErr) {
		return echo.NewHTTPError(http.StatusBadRequest, patternErr.Error())
	}

	var apiErr *github.APIError
	if errors.As(err, &apiErr) {
		s.logger.Error().
			Int("status", apiErr.StatusCode).
			Str("error_class", string(apiErr.ErrorClass)).
			Interface("payload", apiErr.Payload).
			Msg("GitHub API error")
		return echo.NewHTTPError(http.StatusInternalServerError, genericErrorMessage)
	}

	s.logger.Error().Err(err).Msg("Search failed")
	return echo.NewHTTPError(http.StatusInternalServerError, genericErrorMessage)
}
