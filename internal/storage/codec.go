package storage

import (
	"encoding/json"
	"errors"

	"genitor/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRun(r model.RunRecord) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRun(data []byte) (model.RunRecord, error) {
	var run model.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return run, nil
}

func EncodeProblemSummary(s model.ProblemSummary) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeProblemSummary(data []byte) (model.ProblemSummary, error) {
	var summary model.ProblemSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return model.ProblemSummary{}, err
	}
	if err := checkVersion(summary.VersionedRecord); err != nil {
		return model.ProblemSummary{}, err
	}
	return summary, nil
}

func EncodeFitnessHistory(history []float64) ([]byte, error) {
	return json.Marshal(history)
}

func DecodeFitnessHistory(data []byte) ([]float64, error) {
	var history []float64
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
