package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const jsonConfig = `{
	"run_id": "run-json",
	"bins": 96,
	"energy_min": -40,
	"energy_max": 10,
	"num_windows": 4,
	"bin_overlap": 2,
	"mc_sweeps": 10,
	"wl_f": 1.0,
	"tolerance": 0.001,
	"flatness": 0.8,
	"T": 500,
	"num_proc": 8,
	"seed": 9,
	"lattice": {
		"nx": 4, "ny": 4, "nz": 4,
		"basis": [[0, 0, 0], [0.5, 0.5, 0.5]],
		"concentrations": [0.5, 0.5],
		"interactions": [[[0, -0.001], [-0.001, 0]]]
	}
}`

const yamlConfig = `run_id: run-yaml
bins: 96
energy_min: -40
energy_max: 10
num_windows: 4
bin_overlap: 2
mc_sweeps: 10
wl_f: 1.0
tolerance: 0.001
flatness: 0.8
T: 500
num_proc: 8
seed: 9
lattice:
  nx: 4
  ny: 4
  nz: 4
  basis:
    - [0, 0, 0]
    - [0.5, 0.5, 0.5]
  concentrations: [0.5, 0.5]
  interactions:
    - [[0, -0.001], [-0.001, 0]]
`

func TestLoadRunRequestJSON(t *testing.T) {
	path := writeConfig(t, "run.json", jsonConfig)
	req, err := loadRunRequest(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if req.RunID != "run-json" || req.Bins != 96 || req.NumWindows != 4 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.Lattice.Nx != 4 || len(req.Lattice.Basis) != 2 {
		t.Fatalf("unexpected lattice: %+v", req.Lattice)
	}
	if req.Lattice.Interactions[0][0][1] != -0.001 {
		t.Fatalf("unexpected interactions: %+v", req.Lattice.Interactions)
	}
}

func TestLoadRunRequestYAML(t *testing.T) {
	path := writeConfig(t, "run.yaml", yamlConfig)
	req, err := loadRunRequest(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if req.RunID != "run-yaml" || req.EnergyMin != -40 || req.Flatness != 0.8 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if len(req.Lattice.Concentrations) != 2 || req.Lattice.Concentrations[0] != 0.5 {
		t.Fatalf("unexpected lattice: %+v", req.Lattice)
	}
}

func TestJSONAndYAMLConfigsAgree(t *testing.T) {
	jsonReq, err := loadRunRequest(writeConfig(t, "run.json", jsonConfig))
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	yamlReq, err := loadRunRequest(writeConfig(t, "run.yaml", yamlConfig))
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	yamlReq.RunID = jsonReq.RunID
	if jsonReq.Bins != yamlReq.Bins || jsonReq.Tolerance != yamlReq.Tolerance ||
		jsonReq.NumProc != yamlReq.NumProc || jsonReq.Seed != yamlReq.Seed {
		t.Fatalf("formats disagree: %+v vs %+v", jsonReq, yamlReq)
	}
}

func TestLoadRunRequestUnknownExtension(t *testing.T) {
	path := writeConfig(t, "run.toml", "bins = 10")
	if _, err := loadRunRequest(path); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLoadRunRequestMissingFile(t *testing.T) {
	if _, err := loadRunRequest(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadOrDefaultRunRequestEmptyPath(t *testing.T) {
	req, err := loadOrDefaultRunRequest("")
	if err != nil {
		t.Fatalf("empty path: %v", err)
	}
	if req.Bins != 0 || req.RunID != "" {
		t.Fatalf("expected zero request, got %+v", req)
	}
}
