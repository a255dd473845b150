// Package datasource discovers, validates and loads netweave topology
// data. Scanners hand over either a SQLite database or plain JSON
// files; discovery selects the freshest valid source so the viewer
// always reflects the latest scan.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DataDirEnvVar overrides the directory searched for scan data.
const DataDirEnvVar = "NW_DATA_DIR"

// SourceType identifies the kind of data source.
type SourceType string

const (
	// SourceTypeSQLite is a scanner-produced SQLite database.
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeJSON is a plain JSON topology export.
	SourceTypeJSON SourceType = "json"
)

// Priority values for source types (higher = more authoritative).
const (
	PrioritySQLite = 100
	PriorityJSON   = 50
)

// DBFileName is the canonical scanner database name.
const DBFileName = "netweave.db"

// TopologyFileName and ChainsFileName are the canonical JSON exports.
const (
	TopologyFileName = "topology.json"
	ChainsFileName   = "chains.json"
)

// DataSource is one discovered candidate for topology data.
type DataSource struct {
	Type            SourceType `json:"type"`
	Path            string     `json:"path"`
	Priority        int        `json:"priority"`
	ModTime         time.Time  `json:"mod_time"`
	Valid           bool       `json:"valid"`
	ValidationError string     `json:"validation_error,omitempty"`
	NodeCount       int        `json:"node_count"`
	Size            int64      `json:"size"`
}

// String returns a human-readable description of the source.
func (s DataSource) String() string {
	status := "valid"
	if !s.Valid {
		status = fmt.Sprintf("invalid: %s", s.ValidationError)
	}
	return fmt.Sprintf("%s (%s, priority=%d, mod=%s, nodes=%d, %s)",
		s.Path, s.Type, s.Priority, s.ModTime.Format(time.RFC3339), s.NodeCount, status)
}

// DiscoveryOptions configures source discovery.
type DiscoveryOptions struct {
	// DataDir is the directory to search. Empty means NW_DATA_DIR or
	// the current directory.
	DataDir string
	// ValidateAfterDiscovery opens each source and counts its nodes.
	ValidateAfterDiscovery bool
	// IncludeInvalid keeps sources that failed validation in results.
	IncludeInvalid bool
	// Verbose enables detailed logging during discovery.
	Verbose bool
	// Logger receives log messages when Verbose is true.
	Logger func(msg string)
}

// ResolveDataDir applies the env override and cwd fallback.
func ResolveDataDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	if envDir := os.Getenv(DataDirEnvVar); envDir != "" {
		return envDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return cwd, nil
}

// DiscoverSources finds candidate topology sources in the data
// directory, freshest first with source type breaking ties.
func DiscoverSources(opts DiscoveryOptions) ([]DataSource, error) {
	if opts.Logger == nil {
		opts.Logger = func(string) {}
	}

	dataDir, err := ResolveDataDir(opts.DataDir)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		opts.Logger(fmt.Sprintf("Discovering sources in: %s", dataDir))
	}

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var sources []DataSource
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()

		// Skip backups and merge artifacts.
		if strings.Contains(name, ".backup") || strings.Contains(name, ".orig") {
			continue
		}

		var (
			srcType  SourceType
			priority int
		)
		switch {
		case name == DBFileName || strings.HasSuffix(name, ".db"):
			srcType, priority = SourceTypeSQLite, PrioritySQLite
		case name == TopologyFileName:
			srcType, priority = SourceTypeJSON, PriorityJSON
		default:
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}
		src := DataSource{
			Type:     srcType,
			Path:     filepath.Join(dataDir, name),
			Priority: priority,
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		}
		sources = append(sources, src)
		if opts.Verbose {
			opts.Logger(fmt.Sprintf("Found %s: %s (mod=%s)", srcType, src.Path,
				info.ModTime().Format(time.RFC3339)))
		}
	}

	if opts.ValidateAfterDiscovery {
		for i := range sources {
			if err := ValidateSource(&sources[i]); err != nil && opts.Verbose {
				opts.Logger(fmt.Sprintf("Validation failed for %s: %v", sources[i].Path, err))
			}
		}
		if !opts.IncludeInvalid {
			valid := sources[:0]
			for _, s := range sources {
				if s.Valid {
					valid = append(valid, s)
				}
			}
			sources = valid
		}
	}

	sort.Slice(sources, func(i, j int) bool {
		if sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].Priority > sources[j].Priority
		}
		return sources[i].ModTime.After(sources[j].ModTime)
	})

	if opts.Verbose {
		opts.Logger(fmt.Sprintf("Discovered %d sources", len(sources)))
	}
	return sources, nil
}

// ValidateSource opens the source, counts its nodes and records the
// outcome on the source itself.
func ValidateSource(s *DataSource) error {
	var (
		count int
		err   error
	)
	switch s.Type {
	case SourceTypeSQLite:
		var r *SQLiteReader
		r, err = NewSQLiteReader(*s)
		if err == nil {
			count, err = r.CountNodes()
			_ = r.Close()
		}
	case SourceTypeJSON:
		count, err = countTopologyJSON(s.Path)
	default:
		err = fmt.Errorf("unknown source type: %s", s.Type)
	}

	if err != nil {
		s.Valid = false
		s.ValidationError = err.Error()
		return err
	}
	s.Valid = true
	s.ValidationError = ""
	s.NodeCount = count
	return nil
}

// SelectBestSource returns the first valid source; callers pass the
// already-sorted result of DiscoverSources.
func SelectBestSource(sources []DataSource) (DataSource, error) {
	for _, s := range sources {
		if s.Valid {
			return s, nil
		}
	}
	return DataSource{}, fmt.Errorf("no valid source among %d candidates", len(sources))
}
