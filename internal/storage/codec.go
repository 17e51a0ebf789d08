package storage

import (
	"encoding/json"
	"errors"

	"wanglandau/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRunSummary(s model.RunSummary) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeRunSummary(data []byte) (model.RunSummary, error) {
	var summary model.RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return model.RunSummary{}, err
	}
	if err := checkVersion(summary.VersionedRecord); err != nil {
		return model.RunSummary{}, err
	}
	return summary, nil
}

func EncodeRefinements(diagnostics []model.RefinementDiagnostics) ([]byte, error) {
	return json.Marshal(diagnostics)
}

func DecodeRefinements(data []byte) ([]model.RefinementDiagnostics, error) {
	var diagnostics []model.RefinementDiagnostics
	if err := json.Unmarshal(data, &diagnostics); err != nil {
		return nil, err
	}
	return diagnostics, nil
}

func EncodeDoS(snapshot model.DoSSnapshot) ([]byte, error) {
	return json.Marshal(snapshot)
}

func DecodeDoS(data []byte) (model.DoSSnapshot, error) {
	var snapshot model.DoSSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return model.DoSSnapshot{}, err
	}
	if err := checkVersion(snapshot.VersionedRecord); err != nil {
		return model.DoSSnapshot{}, err
	}
	return snapshot, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
