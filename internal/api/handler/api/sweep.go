// internal/api/handler/api/sweep.go
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
)

const sweepTimeout = 30 * time.Minute

// SweepRequest is the request body for starting a parameter sweep.
type SweepRequest struct {
	Symbol    string                         `json:"symbol"`
	Strategy  string                         `json:"strategy"`
	Start     string                         `json:"start"`
	End       string                         `json:"end"`
	Interval  string                         `json:"interval,omitempty"`
	Objective string                         `json:"objective,omitempty"`
	TopN      int                            `json:"top_n,omitempty"`
	Ranges    map[string]backtest.ParamRange `json:"ranges"`
}

// SweepHandler handles parameter sweep API requests.
type SweepHandler struct {
	jobStore  *job.Store
	sweeper   *backtest.Sweeper
	factories map[string]backtest.StrategyFactory
	cfg       backtest.Config
	metrics   *metrics.Registry
	logger    *zap.Logger
}

// NewSweepHandler creates a new sweep handler.
func NewSweepHandler(
	jobStore *job.Store,
	sweeper *backtest.Sweeper,
	factories map[string]backtest.StrategyFactory,
	cfg backtest.Config,
	reg *metrics.Registry,
	logger *zap.Logger,
) *SweepHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SweepHandler{
		jobStore:  jobStore,
		sweeper:   sweeper,
		factories: factories,
		cfg:       cfg,
		metrics:   reg,
		logger:    logger,
	}
}

// Create starts a new sweep job.
func (h *SweepHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigInvalid, err))
		return
	}

	if req.Symbol == "" || req.Strategy == "" || len(req.Ranges) == 0 {
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

	// Reject oversized grids before queueing the job
	if _, err := backtest.ExpandGrid(req.Ranges, backtest.MaxSweepCombinations); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	cfg := h.cfg
	if req.Interval != "" {
		cfg.Interval = req.Interval
	}

	sweepReq := backtest.SweepRequest{
		Symbol:    req.Symbol,
		Start:     start,
		End:       end,
		Config:    cfg,
		Ranges:    req.Ranges,
		Objective: req.Objective,
		TopN:      req.TopN,
	}

	j := h.jobStore.Create("sweep")
	jobID := j.ID
	status := j.Status

	go h.runSweep(jobID, factory, sweepReq)

	response.JSON(w, http.StatusAccepted, map[string]any{
		"job_id": jobID,
		"status": status,
	})
}

// runSweep executes the sweep and updates job status.
func (h *SweepHandler) runSweep(jobID string, factory backtest.StrategyFactory, req backtest.SweepRequest) {
	h.jobStore.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusRunning
	})
	if h.metrics != nil {
		h.metrics.SetJobsActive("sweep", h.jobStore.CountActive("sweep"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	result, err := h.sweeper.Run(ctx, factory, req)

	if err != nil {
		h.logger.Warn("sweep job failed",
			zap.String("job_id", jobID),
			zap.String("symbol", req.Symbol),
			zap.Error(err))
		h.jobStore.Update(jobID, func(j *job.Job) {
			j.Status = job.StatusFailed
			j.Error = asCoreError(err)
		})
		if h.metrics != nil {
			h.metrics.RecordSweep("failed")
			h.metrics.SetJobsActive("sweep", h.jobStore.CountActive("sweep"))
		}
		return
	}

	h.jobStore.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusComplete
		j.Progress = 100
		j.Result = result
	})
	if h.metrics != nil {
		h.metrics.RecordSweep("success")
		h.metrics.SetJobsActive("sweep", h.jobStore.CountActive("sweep"))
	}
}

// GetStatus returns the status of a sweep job.
func (h *SweepHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
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
