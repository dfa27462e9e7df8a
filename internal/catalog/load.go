package catalog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"trackmatch/internal/matching"
)

// ErrUnsupportedFormat is returned for files that are not JSON, JSONL or YAML.
var ErrUnsupportedFormat = errors.New("unsupported file format")

type format int

const (
	formatJSON format = iota
	formatJSONL
	formatYAML
)

func detectFormat(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".jsonl", ".ndjson":
		return formatJSONL, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q (want .json, .jsonl, .yaml or .yml)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func readFile(path string) (format, []byte, error) {
	f, err := detectFormat(path)
	if err != nil {
		return 0, nil, err
	}
	if f == formatJSONL {
		return 0, nil, fmt.Errorf("%w: %s does not accept JSON lines", ErrUnsupportedFormat, filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return f, data, nil
}

func unmarshal(f format, data []byte, out any) error {
	if f == formatYAML {
		return yaml.Unmarshal(data, out)
	}
	return json.Unmarshal(data, out)
}

func decodeFile(path string, out any) error {
	f, data, err := readFile(path)
	if err != nil {
		return err
	}
	if err := unmarshal(f, data, out); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// LoadTracks reads a catalog file holding a list of tracks. JSON files may
// also wrap the list as {"tracks": [...]}; JSONL files hold one track per line.
func LoadTracks(path string) ([]matching.Track, error) {
	f, err := detectFormat(path)
	if err != nil {
		return nil, err
	}
	var tracks []matching.Track
	switch f {
	case formatJSONL:
		tracks, err = readJSONLines(path)
	default:
		tracks, err = decodeTrackList(path)
	}
	if err != nil {
		return nil, err
	}
	for i := range tracks {
		if strings.TrimSpace(tracks[i].Title) == "" {
			return nil, fmt.Errorf("%s: entry %d: title is required", filepath.Base(path), i+1)
		}
	}
	return tracks, nil
}

func decodeTrackList(path string) ([]matching.Track, error) {
	f, data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var tracks []matching.Track
	listErr := unmarshal(f, data, &tracks)
	if listErr == nil {
		return tracks, nil
	}
	var wrapped struct {
		Tracks []matching.Track `json:"tracks" yaml:"tracks"`
	}
	if err := unmarshal(f, data, &wrapped); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), listErr)
	}
	return wrapped.Tracks, nil
}

// LoadSources reads the source tracks for a batch run.
func LoadSources(path string) ([]matching.Track, error) {
	return LoadTracks(path)
}

func readJSONLines(path string) ([]matching.Track, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	var tracks []matching.Track
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 || text[0] == '#' {
			continue
		}
		var track matching.Track
		if err := json.Unmarshal(text, &track); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filepath.Base(path), line, err)
		}
		tracks = append(tracks, track)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return tracks, nil
}

// Request is one match request: a source track and the candidates a search
// returned for it.
type Request struct {
	Source     matching.Track       `json:"source" yaml:"source"`
	Candidates []matching.Candidate `json:"candidates" yaml:"candidates"`
}

// LoadRequest reads a JSON or YAML match request.
func LoadRequest(path string) (Request, error) {
	var req Request
	if err := decodeFile(path, &req); err != nil {
		return Request{}, err
	}
	if strings.TrimSpace(req.Source.Title) == "" {
		return Request{}, fmt.Errorf("%s: source title is required", filepath.Base(path))
	}
	return req, nil
}
