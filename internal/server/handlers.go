package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/compsherpa/compsherpa/internal/profile"
	"github.com/compsherpa/compsherpa/internal/report"
	"github.com/compsherpa/compsherpa/internal/schemas"
	"github.com/compsherpa/compsherpa/internal/types"
)

const (
	maxBodyBytes  = 1 << 20
	healthTimeout = 2 * time.Second
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// handleGenerateReport generates (or reuses) a report for the submitted profile.
// Provider failures are absorbed by the fallback; only bad input is an error.
func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateReportRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	generate := s.generator.Generate
	if req.Regenerate {
		generate = s.generator.Regenerate
	}
	res, err := generate(r.Context(), req.Profile, req.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.GenerateReportResponse{
		Success:     true,
		Report:      res.Report,
		IsExploring: res.IsExploring,
		GeneratedAt: res.GeneratedAt,
		Fingerprint: res.Fingerprint,
		Source:      string(res.Source),
		Cached:      res.Cached,
	})
}

// handleSaveReport stores a report the client already holds.
func (s *Server) handleSaveReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, ErrStoreUnavailable)
		return
	}

	var req types.SaveReportRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := report.Validate(req.Report, profile.IsExploring(req.Profile.TargetRole)); err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.saveTimeout)
	defer cancel()
	if err := s.store.SaveReport(ctx, req.Report, req.Profile, req.UserID); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleLatestReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, ErrStoreUnavailable)
		return
	}

	userID := r.PathValue("userID")
	rec, err := s.store.LatestReport(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if rec == nil {
		s.writeError(w, &ErrNotFound{Resource: "report", UserID: userID})
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleSaveProfile upserts the user's profile.
func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, ErrStoreUnavailable)
		return
	}

	var req types.SaveProfileRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.saveTimeout)
	defer cancel()
	rec, err := s.store.UpsertProfile(ctx, req.UserID, req.Email, req.Profile)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true, "profile": rec})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, ErrStoreUnavailable)
		return
	}

	userID := r.PathValue("userID")
	rec, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if rec == nil {
		s.writeError(w, &ErrNotFound{Resource: "profile", UserID: userID})
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleSignup captures an email address. Storage is best effort: once the address
// is well formed the caller is told it succeeded.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req types.SignupRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	outcome := "stored"
	if s.store == nil {
		outcome = "skipped"
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), s.saveTimeout)
		defer cancel()
		if err := s.store.SaveSignup(ctx, req.Email); err != nil {
			outcome = "failed"
			s.logger.Warn("failed to store signup", zap.Error(err))
		}
	}
	signups.WithLabelValues(outcome).Inc()

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Thanks for signing up!",
	})
}

// handleHealth pings the store and cache concurrently.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	storeStatus, cacheStatus := "disabled", "disabled"
	var g errgroup.Group
	if s.store != nil {
		g.Go(func() error {
			storeStatus = statusOf(s.store.Ping(ctx))
			return nil
		})
	}
	if s.cache != nil {
		g.Go(func() error {
			cacheStatus = statusOf(s.cache.Ping(ctx))
			return nil
		})
	}
	_ = g.Wait()

	resp := HealthResponse{
		Status: "ok",
		Checks: map[string]string{"database": storeStatus, "cache": cacheStatus},
	}
	status := http.StatusOK
	for _, v := range resp.Checks {
		if v != "ok" && v != "disabled" {
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
	}
	s.jsonResponse(w, status, resp)
}

func statusOf(err error) string {
	if err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

// validatable is implemented by the request types.
type validatable interface {
	Validate() error
}

// decodeRequest reads a JSON body into dst, schema-checks any embedded profile and
// runs dst's struct validation.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dst validatable) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return tooLarge
		}
		return &ErrValidation{Field: "body", Message: "unreadable request body"}
	}

	var envelope struct {
		Profile json.RawMessage `json:"profile"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if raw := strings.TrimSpace(string(envelope.Profile)); raw != "" && raw != "null" {
		if err := schemas.ValidateProfileJSON(raw); err != nil {
			return err
		}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid request: " + err.Error()}
	}
	return validationError(dst.Validate())
}

// validationError converts validator failures into *ErrValidation.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: "failed on the '" + fe.Tag() + "' rule"}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}
