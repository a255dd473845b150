package datasource

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/cbayliss/netweave/pkg/debug"
	"github.com/cbayliss/netweave/pkg/metrics"
	"github.com/cbayliss/netweave/pkg/model"
)

// Bundle is a fully loaded and normalized dataset: one topology
// snapshot plus whatever chains came with it.
type Bundle struct {
	Topology   *model.Topology
	Chains     []*model.AttackChain
	Source     DataSource
	Normalized model.NormalizeResult
}

// LoadBundle performs smart source detection in the data directory,
// picks the freshest valid source and loads from it. The returned
// topology is validated and normalized.
func LoadBundle(dataDir string) (*Bundle, error) {
	defer metrics.Timer(metrics.TopologyLoad)()

	sources, err := DiscoverSources(DiscoveryOptions{
		DataDir:                dataDir,
		ValidateAfterDiscovery: true,
	})
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no topology sources found in %s", orCwd(dataDir))
	}

	best, err := SelectBestSource(sources)
	if err != nil {
		return nil, err
	}
	debug.Dump("datasource: selected", best)
	return LoadBundleFromSource(best)
}

// LoadBundleFromSource loads a bundle from one specific source,
// dispatching on its type.
func LoadBundleFromSource(source DataSource) (*Bundle, error) {
	b := &Bundle{Source: source}

	switch source.Type {
	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite source %s: %w", source.Path, err)
		}
		defer reader.Close()

		b.Topology, err = reader.LoadTopology()
		if err != nil {
			return nil, err
		}
		b.Chains, err = reader.LoadChains()
		if err != nil {
			return nil, err
		}

	case SourceTypeJSON:
		companion := filepath.Join(filepath.Dir(source.Path), ChainsFileName)
		if err := loadJSONPair(b, source.Path, companion); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}

	return finishBundle(b)
}

// LoadBundleFromFiles loads a bundle from explicit JSON paths,
// bypassing discovery entirely. An empty chainsPath falls back to the
// companion chains file next to the topology.
func LoadBundleFromFiles(topologyPath, chainsPath string) (*Bundle, error) {
	defer metrics.Timer(metrics.TopologyLoad)()

	if chainsPath == "" {
		chainsPath = filepath.Join(filepath.Dir(topologyPath), ChainsFileName)
	}

	src := DataSource{
		Type:     SourceTypeJSON,
		Path:     topologyPath,
		Priority: PriorityJSON,
	}
	if info, err := os.Stat(topologyPath); err == nil {
		src.ModTime = info.ModTime()
		src.Size = info.Size()
	}

	b := &Bundle{Source: src}
	if err := loadJSONPair(b, topologyPath, chainsPath); err != nil {
		return nil, err
	}
	return finishBundle(b)
}

// loadJSONPair fills the bundle from a topology file and its chains
// file, loading both in parallel.
func loadJSONPair(b *Bundle, topologyPath, chainsPath string) error {
	var g errgroup.Group
	g.Go(func() error {
		topo, err := LoadTopologyJSON(topologyPath)
		if err != nil {
			return err
		}
		b.Topology = topo
		return nil
	})
	g.Go(func() error {
		chains, err := LoadChainsJSON(chainsPath)
		if err != nil {
			return err
		}
		b.Chains = chains
		return nil
	})
	return g.Wait()
}

// finishBundle normalizes and validates a freshly loaded bundle.
// Normalization dedupes nodes and drops dangling edges before the
// stricter structural checks run.
func finishBundle(b *Bundle) (*Bundle, error) {
	b.Normalized = b.Topology.Normalize()
	if err := b.Topology.Validate(); err != nil {
		return nil, fmt.Errorf("invalid topology from %s: %w", b.Source.Path, err)
	}
	if n := b.Normalized.DuplicateNodes; n > 0 {
		metrics.DuplicateNodes.Add(int64(n))
		debug.Log("datasource: dropped %d duplicate nodes from %s", n, b.Source.Path)
	}
	if n := b.Normalized.DanglingEdges; n > 0 {
		metrics.DanglingEdges.Add(int64(n))
		debug.Log("datasource: dropped %d dangling edges from %s", n, b.Source.Path)
	}

	for _, ch := range b.Chains {
		if err := ch.Validate(); err != nil {
			debug.Log("datasource: chain %q: %v", ch.ID, err)
		}
	}

	debug.Log("datasource: loaded %d nodes, %d edges, %d chains from %s",
		len(b.Topology.Nodes), len(b.Topology.Edges), len(b.Chains), b.Source.Path)
	return b, nil
}

func orCwd(dir string) string {
	if dir == "" {
		return "current directory"
	}
	return dir
}
