// Package api serves the diagnostic-reasoning engine over HTTP. Handlers
// decode and validate JSON, resolve catalog references and encode results;
// all numeric work happens in the engine.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/abhisek/bayesdx/internal/bayes"
	"github.com/abhisek/bayesdx/internal/catalog"
	"github.com/abhisek/bayesdx/internal/metrics"
	"github.com/abhisek/bayesdx/internal/service"
)

const maxBodyBytes = 1 << 20

// Handler wires engine endpoints to the service.
type Handler struct {
	engine  service.Engine
	catalog *catalog.Catalog
	logger  *zap.Logger
	metrics *metrics.Metrics
	cache   *responseCache
}

// NewHandler constructs a Handler. cacheSize 0 disables response caching.
func NewHandler(engine service.Engine, cat *catalog.Catalog, logger *zap.Logger, m *metrics.Metrics, cacheSize int) (*Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cat == nil {
		cat = catalog.Default()
	}
	cache, err := newResponseCache(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Handler{
		engine:  engine,
		catalog: cat,
		logger:  logger,
		metrics: m,
		cache:   cache,
	}, nil
}

// Register mounts engine endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/likelihood-ratio", h.handleLikelihoodRatio)
	r.Post("/posterior", h.handlePosterior)
	r.Post("/sequential", h.handleSequential)
	r.Post("/performance", h.handlePerformance)
	r.Post("/recommend", h.handleRecommend)
	r.Get("/tests", h.handleListTests)
}

func (h *Handler) handleLikelihoodRatio(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, service.OpLikelihoodRatio, false,
		decode[service.LRInput],
		func(ctx context.Context, in service.LRInput) (likelihoodRatioResponse, error) {
			lr, err := h.engine.LikelihoodRatio(ctx, in)
			if err != nil {
				return likelihoodRatioResponse{}, err
			}
			if lr.IsUnbounded() {
				h.metrics.IncrementUnboundedLR()
			}
			return likelihoodRatioResponse{LikelihoodRatio: lr}, nil
		})
}

func (h *Handler) handlePosterior(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, service.OpPosterior, false,
		decode[service.PosteriorInput],
		func(ctx context.Context, in service.PosteriorInput) (posteriorResponse, error) {
			p, err := h.engine.Posterior(ctx, in)
			if err != nil {
				return posteriorResponse{}, err
			}
			return posteriorResponse{PosteriorProbability: p, Confidence: bayes.ClassifyConfidence(p)}, nil
		})
}

func (h *Handler) handleSequential(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, service.OpSequential, true,
		func(raw []byte) (service.SequentialInput, error) {
			req, err := decode[sequentialRequest](raw)
			if err != nil {
				return service.SequentialInput{}, err
			}
			return resolveSequential(h.catalog, req)
		},
		func(ctx context.Context, in service.SequentialInput) (bayes.SequentialAnalysis, error) {
			a, err := h.engine.Sequential(ctx, in)
			if err != nil {
				return a, err
			}
			for _, s := range a.Steps {
				if s.LikelihoodRatio.IsUnbounded() {
					h.metrics.IncrementUnboundedLR()
				}
			}
			return a, nil
		})
}

func (h *Handler) handlePerformance(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, service.OpPerformance, false,
		decode[service.PerformanceInput],
		h.engine.Performance)
}

func (h *Handler) handleRecommend(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, service.OpRecommend, true,
		func(raw []byte) (service.RecommendInput, error) {
			req, err := decode[recommendRequest](raw)
			if err != nil {
				return service.RecommendInput{}, err
			}
			return resolveRecommend(h.catalog, req)
		},
		h.engine.Recommend)
}

// handleListTests handles GET /v1/tests with an optional ?category= filter.
func (h *Handler) handleListTests(w http.ResponseWriter, r *http.Request) {
	entries := h.catalog.All()
	if c := r.URL.Query().Get("category"); c != "" {
		cat := catalog.Category(c)
		if !cat.Valid() {
			h.writeError(w, r, "tests", &requestError{Reason: fmt.Sprintf("unknown category %q", c)})
			return
		}
		entries = h.catalog.ByCategory(cat)
	}
	writeJSON(w, http.StatusOK, testsResponse{Tests: entries})
}

// serve runs one engine endpoint: read, schema-check, decode, consult the
// cache, call, encode. Metrics are observed once per request.
func serve[In, Out any](
	h *Handler,
	w http.ResponseWriter,
	r *http.Request,
	op service.Operation,
	cacheable bool,
	decodeFn func(raw []byte) (In, error),
	call func(ctx context.Context, in In) (Out, error),
) {
	ctx := r.Context()
	start := time.Now()
	outcome := "ok"
	defer func() {
		h.metrics.ObserveRequest(string(op), outcome, time.Since(start))
	}()

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		outcome = h.writeError(w, r, op, &requestError{Reason: fmt.Sprintf("read request body: %v", err)})
		return
	}
	if err := validateBody(op, raw); err != nil {
		outcome = h.writeError(w, r, op, err)
		return
	}
	in, err := decodeFn(raw)
	if err != nil {
		outcome = h.writeError(w, r, op, err)
		return
	}

	var key string
	if cacheable {
		var ok bool
		if key, ok = h.cache.key(op, in); ok {
			if body, hit := h.cache.get(key); hit {
				h.metrics.ObserveCache(true)
				outcome = "cached"
				writeBody(w, http.StatusOK, body)
				return
			}
			h.metrics.ObserveCache(false)
		}
	}

	out, err := call(ctx, in)
	if err != nil {
		outcome = h.writeError(w, r, op, err)
		return
	}
	body, err := json.Marshal(out)
	if err != nil {
		outcome = h.writeError(w, r, op, fmt.Errorf("encode %s response: %w", op, err))
		return
	}
	if key != "" {
		h.cache.add(key, body)
	}
	writeBody(w, http.StatusOK, body)
}

// writeError writes the error envelope and returns the metrics outcome.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op service.Operation, err error) string {
	requestID := service.RequestIDFrom(r.Context())
	status, code, description := classify(err)

	var valErr *bayes.ValidationError
	if errors.As(err, &valErr) {
		h.metrics.IncrementValidationError(valErr.Field)
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("request_id", requestID),
			zap.String("operation", string(op)),
			zap.Error(err),
		)
	} else {
		h.logger.Debug("request rejected",
			zap.String("request_id", requestID),
			zap.String("operation", string(op)),
			zap.String("code", code),
			zap.Error(err),
		)
	}

	writeErrorEnvelope(w, status, code, description, requestID)
	return code
}
