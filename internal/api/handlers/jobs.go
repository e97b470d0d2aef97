package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/niftyscreen/internal/scheduler"
)

// defaultHistoryLimit is the number of runs returned when no limit is given
const defaultHistoryLimit = 20

// JobScheduler exposes scheduler statistics and manual triggers
type JobScheduler interface {
	GetJobStats() map[string]scheduler.JobStats
	GetJobHistory(jobName string, n int) ([]scheduler.JobResult, error)
	RunJob(jobName string) error
}

// JobsHandler serves background job status
type JobsHandler struct {
	scheduler JobScheduler
}

// NewJobsHandler creates a new jobs handler; sched may be nil when no scheduler runs
func NewJobsHandler(sched JobScheduler) *JobsHandler {
	return &JobsHandler{scheduler: sched}
}

// GetJobs returns per-job statistics
// GET /api/jobs
func (h *JobsHandler) GetJobs(w http.ResponseWriter, r *http.Request) {
	if h.scheduler == nil {
		respondData(w, map[string]scheduler.JobStats{})
		return
	}
	respondData(w, h.scheduler.GetJobStats())
}

// GetJobHistory returns the latest runs of one job, newest last
// GET /api/jobs/{name}/history?limit=20
func (h *JobsHandler) GetJobHistory(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	if h.scheduler == nil {
		respondError(w, http.StatusNotFound, scheduler.ErrJobNotFound.Error())
		return
	}

	results, err := h.scheduler.GetJobHistory(name, limit)
	if err != nil {
		respondError(w, jobStatus(err), err.Error())
		return
	}

	respondData(w, map[string]interface{}{
		"job":     name,
		"results": results,
	})
}

// RunJob starts a job immediately, outside its schedule
// POST /api/jobs/{name}/run
func (h *JobsHandler) RunJob(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if h.scheduler == nil {
		respondError(w, http.StatusNotFound, scheduler.ErrJobNotFound.Error())
		return
	}

	if err := h.scheduler.RunJob(name); err != nil {
		respondError(w, jobStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"success": true,
		"data": map[string]string{
			"job":    name,
			"status": "started",
		},
	})
}

func jobStatus(err error) int {
	if errors.Is(err, scheduler.ErrJobNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
