// internal/api/handler/api/backtest.go
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dkoval/chronos/internal/api/job"
	"github.com/dkoval/chronos/internal/api/response"
	"github.com/dkoval/chronos/internal/backtest"
	"github.com/dkoval/chronos/internal/core"
	"github.com/dkoval/chronos/internal/metrics"
	"github.com/dkoval/chronos/internal/strategy"
)

const backtestTimeout = 5 * time.Minute

// BacktestRequest is the request body for starting a backtest.
type BacktestRequest struct {
	Symbol   string         `json:"symbol"`
	Strategy string         `json:"strategy"`
	Start    string         `json:"start"`
	End      string         `json:"end"`
	Interval string         `json:"interval,omitempty"`
	Params   map[string]any `json:"params,omitempty"`
}

// BacktestHandler handles backtest API requests.
type BacktestHandler struct {
	jobStore  *job.Store
	engine    *backtest.Engine
	factories map[string]backtest.StrategyFactory
	cfg       backtest.Config
	metrics   *metrics.Registry
	logger    *zap.Logger
}

// NewBacktestHandler creates a new backtest handler.
func NewBacktestHandler(
	jobStore *job.Store,
	engine *backtest.Engine,
	factories map[string]backtest.StrategyFactory,
	cfg backtest.Config,
	reg *metrics.Registry,
	logger *zap.Logger,
) *BacktestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BacktestHandler{
		jobStore:  jobStore,
		engine:    engine,
		factories: factories,
		cfg:       cfg,
		metrics:   reg,
		logger:    logger,
	}
}

// Create starts a new backtest job.
func (h *BacktestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigInvalid, err))
		return
	}

	if req.Symbol == "" || req.Strategy == "" {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigMissing, nil))
		return
	}

	start, err := time.Parse("2006-01-02", req.Start)
	if err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigInvalid, err))
		return
	}
	end, err := time.Parse("2006-01-02", req.End)
	if err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigInvalid, err))
		return
	}

	factory, ok := h.factories[req.Strategy]
	if !ok {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown strategy %q", req.Strategy)))
		return
	}

	strat := factory()
	if err := strat.Init(strategy.Config{Enabled: true, Params: req.Params}); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigInvalid, err))
		return
	}

	cfg := h.cfg
	if req.Interval != "" {
		cfg.Interval = req.Interval
	}

	j := h.jobStore.Create("backtest")
	jobID := j.ID
	status := j.Status

	go h.runBacktest(jobID, strat, req.Symbol, start, end, cfg)

	response.JSON(w, http.StatusAccepted, map[string]any{
		"job_id": jobID,
		"status": status,
	})
}

// runBacktest executes the backtest and updates job status.
func (h *BacktestHandler) runBacktest(
	jobID string,
	strat strategy.Strategy,
	symbol string,
	start, end time.Time,
	cfg backtest.Config,
) {
	h.jobStore.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusRunning
	})
	if h.metrics != nil {
		h.metrics.SetJobsActive("backtest", h.jobStore.CountActive("backtest"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), backtestTimeout)
	defer cancel()

	began := time.Now()
	result, err := h.engine.Run(ctx, strat, symbol, start, end, cfg)
	elapsed := time.Since(began).Seconds()

	if err != nil {
		h.logger.Warn("backtest job failed",
			zap.String("job_id", jobID),
			zap.String("symbol", symbol),
			zap.Error(err))
		h.jobStore.Update(jobID, func(j *job.Job) {
			j.Status = job.StatusFailed
			j.Error = asCoreError(err)
		})
		if h.metrics != nil {
			h.metrics.RecordBacktest("failed", elapsed)
			h.metrics.SetJobsActive("backtest", h.jobStore.CountActive("backtest"))
		}
		return
	}

	h.jobStore.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusComplete
		j.Progress = 100
		j.Result = result
	})
	if h.metrics != nil {
		h.metrics.RecordBacktest("success", elapsed)
		h.metrics.SetJobsActive("backtest", h.jobStore.CountActive("backtest"))
	}
}

// GetStatus returns the status of a backtest job.
func (h *BacktestHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	j, err := h.jobStore.Get(r.PathValue("id"))
	if err != nil {
		response.Error(w, http.StatusNotFound, err)
		return
	}

	resp := map[string]any{
		"job_id":   j.ID,
		"status":   j.Status,
		"progress": j.Progress,
	}

	if j.Status == job.StatusComplete {
		resp["result"] = j.Result
	}
	if j.Status == job.StatusFailed && j.Error != nil {
		resp["error"] = map[string]string{
			"code":    j.Error.Code,
			"message": j.Error.Message,
		}
	}

	response.JSON(w, http.StatusOK, resp)
}

// List returns all backtest jobs.
func (h *BacktestHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs := h.jobStore.List()
	summaries := make([]map[string]any, 0, len(jobs))
	for _, j := range jobs {
		if j.Type != "backtest" {
			continue
		}
		summaries = append(summaries, map[string]any{
			"job_id":     j.ID,
			"status":     j.Status,
			"created_at": j.CreatedAt,
		})
	}
	response.JSON(w, http.StatusOK, summaries)
}

func asCoreError(err error) *core.Error {
	if coreErr, ok := err.(*core.Error); ok {
		return coreErr
	}
	return core.WrapError(core.ErrStrategyExecution, err)
}
