package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

type RunSummary struct {
	VersionedRecord
	ID               string  `json:"id"`
	Bins             int     `json:"bins"`
	NumWindows       int     `json:"num_windows"`
	BinOverlap       int     `json:"bin_overlap"`
	WalkersPerWindow int     `json:"walkers_per_window"`
	NumProc          int     `json:"num_proc"`
	MCSweeps         int     `json:"mc_sweeps"`
	InitialF         float64 `json:"initial_f"`
	FinalF           float64 `json:"final_f"`
	Tolerance        float64 `json:"tolerance"`
	Flatness         float64 `json:"flatness"`
	Seed             int64   `json:"seed"`
	Refinements      int     `json:"refinements"`
	WallSeconds      float64 `json:"wall_seconds"`
}

// RefinementDiagnostics records one refinement event as observed on the root.
type RefinementDiagnostics struct {
	Refinement      int     `json:"refinement"`
	F               float64 `json:"f"`
	Flatness        float64 `json:"flatness"`
	MinRoundSeconds float64 `json:"min_round_seconds"`
	MaxRoundSeconds float64 `json:"max_round_seconds"`
	AcceptedTrials  int64   `json:"accepted_trials"`
}

// DoSSnapshot holds the stitched global log-DoS together with its bin edges.
type DoSSnapshot struct {
	VersionedRecord
	RunID  string    `json:"run_id"`
	Edges  []float64 `json:"edges"`
	LogDoS []float64 `json:"log_dos"`
}
