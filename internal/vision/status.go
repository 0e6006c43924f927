package vision

import "time"

// Status is the diagnostic snapshot exposed for tuning.
type Status struct {
	Configured   bool          `json:"configured"`
	GridWidth    int           `json:"grid_width"`
	GridHeight   int           `json:"grid_height"`
	CellSize     float64       `json:"cell_size"`
	SourceCount  int           `json:"source_count"`
	Owners       []int         `json:"owners"`
	Passes       uint64        `json:"passes"`
	LastPassTime time.Duration `json:"last_pass_ns"`
}

// Status reports source count, grid dimensions and last-pass duration.
func (s *Service) Status() Status {
	st := Status{
		SourceCount:  s.registry.Len(),
		Owners:       s.registry.Owners(),
		Passes:       s.passes.Load(),
		LastPassTime: s.passDuration(),
	}
	if cfg := s.cfg.Load(); cfg != nil {
		st.Configured = true
		st.GridWidth = cfg.GridWidth()
		st.GridHeight = cfg.GridHeight()
		st.CellSize = cfg.CellSize
	}
	return st
}
