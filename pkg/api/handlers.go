package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lattics/lattics/pkg/rng"
	"github.com/lattics/lattics/pkg/runmanager"
	"github.com/lattics/lattics/pkg/simulation"
	"github.com/lattics/lattics/pkg/space"
	"github.com/lattics/lattics/pkg/units"
	"github.com/lattics/lattics/pkg/version"
)

func (s *Server) healthHandler(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]HealthCheck)
	status := "healthy"

	if s.store != nil {
		if _, err := s.store.Health(reqCtx); err != nil {
			status = "unhealthy"
			checks["storage"] = HealthCheck{Status: "unhealthy", Message: err.Error()}
		} else {
			checks["storage"] = HealthCheck{Status: "healthy"}
		}
	}

	httpStatus := http.StatusOK
	if status == "unhealthy" {
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, HealthResponse{Status: status, Version: version.GitCommit, Checks: checks})
}

// CreateRunRequest describes the domain and run schedule for a new
// simulation. SpaceType selects "homogeneous" or "lattice2d"; Width/Height/
// GridSpacing only apply to lattice2d.
type CreateRunRequest struct {
	SpaceType   string  `json:"space_type" binding:"required,oneof=homogeneous lattice2d"`
	Volume      float64 `json:"volume"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	GridSpacing float64 `json:"grid_spacing"`
	Seed        int64   `json:"seed"`

	TimeValue      float64 `json:"time_value" binding:"required"`
	TimeUnit       string  `json:"time_unit" binding:"required"`
	DtValue        float64 `json:"dt_value" binding:"required"`
	DtUnit         string  `json:"dt_unit" binding:"required"`
	DtHistoryValue float64 `json:"dt_history_value"`
	DtHistoryUnit  string  `json:"dt_history_unit"`
	SaveMode       string  `json:"save_mode"`
}

func (s *Server) createRunHandler(c *gin.Context) {
	var req CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sim := simulation.New("")
	stream := rng.New(req.Seed)

	var sp simulation.Space
	switch req.SpaceType {
	case "lattice2d":
		sp = space.NewLattice2DSpace(sim, req.Width, req.Height, req.GridSpacing, 0, 0, stream)
	default:
		sp = space.NewHomogeneousSpace(sim, req.Volume, req.Volume > 0, 0, 0)
	}
	if err := sim.AddSpace(sp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	saveMode := simulation.SaveOnCompletion
	if req.SaveMode == string(simulation.SaveAlways) {
		saveMode = simulation.SaveAlways
	}

	opts := simulation.RunOptions{
		TimeValue:      req.TimeValue,
		TimeUnit:       units.Unit(req.TimeUnit),
		DtValue:        req.DtValue,
		DtUnit:         units.Unit(req.DtUnit),
		DtHistoryValue: req.DtHistoryValue,
		DtHistoryUnit:  units.Unit(req.DtHistoryUnit),
		SaveMode:       saveMode,
	}

	run, err := s.runs.Start(sim, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, toRunResponse(run.Clone()))
}

func (s *Server) listRunsHandler(c *gin.Context) {
	runs := s.runs.List()
	out := make([]RunResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, toRunResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getRunHandler(c *gin.Context) {
	run, err := s.runs.Get(c.Param("id"))
	if err != nil {
		writeError(c, ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, toRunResponse(run.Clone()))
}

func (s *Server) cancelRunHandler(c *gin.Context) {
	if err := s.runs.Cancel(c.Param("id")); err != nil {
		writeError(c, ErrNotCancellable)
		return
	}
	c.Status(http.StatusNoContent)
}

func toRunResponse(r runmanager.Run) RunResponse {
	return RunResponse{
		ID:        r.ID,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
		UpdatedAt: r.UpdatedAt.Format(time.RFC3339),
		Error:     r.Error,
	}
}
