package main

import (
	"encoding/json"
	"io"
	"os"
	"sort"

	"httplsp/internal/config"
	"httplsp/internal/scanner"
	"httplsp/internal/server"
)

type dumpedRequest struct {
	StartLine uint32 `json:"start_line"`
	EndLine   uint32 `json:"end_line"`
	Method    string `json:"method"`
	URL       string `json:"url"`
}

type dumpedFile struct {
	Path     string          `json:"path"`
	Requests []dumpedRequest `json:"requests"`
}

func loadConfig(configPath string) (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	f, err := os.Open(configPath)
	if err != nil {
		return config.Config{}, err
	}
	defer f.Close()
	return config.LoadFromJSON(f)
}

// runDump prints the requests of every request file under root as JSON.
func runDump(w io.Writer, root string, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	ex, closer, err := server.NewExtractor(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	var files []dumpedFile
	err = scanner.Scan(root, cfg.SourceSuffix, func(path string, data []byte) {
		file := dumpedFile{Path: path, Requests: []dumpedRequest{}}
		for _, b := range ex.Boundaries(string(data)) {
			file.Requests = append(file.Requests, dumpedRequest(b))
		}
		files = append(files, file)
	})
	if err != nil {
		return err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(files)
}
