package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"wanglandau/pkg/wanglandau"
)

// loadRunRequest reads a run configuration from a JSON or YAML file, picked
// by extension.
func loadRunRequest(path string) (wanglandau.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return wanglandau.RunRequest{}, err
	}

	var req wanglandau.RunRequest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &req); err != nil {
			return wanglandau.RunRequest{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &req); err != nil {
			return wanglandau.RunRequest{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return wanglandau.RunRequest{}, fmt.Errorf("unsupported config format: %s", path)
	}
	return req, nil
}

func loadOrDefaultRunRequest(configPath string) (wanglandau.RunRequest, error) {
	if configPath == "" {
		return wanglandau.RunRequest{}, nil
	}
	req, err := loadRunRequest(configPath)
	if err != nil {
		return wanglandau.RunRequest{}, fmt.Errorf("load config: %w", err)
	}
	return req, nil
}
