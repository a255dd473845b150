package datasource

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/cbayliss/netweave/pkg/model"
)

// LoadTopologyJSON reads a topology snapshot from a JSON export.
func LoadTopologyJSON(path string) (*model.Topology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open topology file: %w", err)
	}
	defer f.Close()

	var topo model.Topology
	if err := json.NewDecoder(f).Decode(&topo); err != nil {
		return nil, fmt.Errorf("cannot parse topology %s: %w", path, err)
	}
	return &topo, nil
}

// chainsDocument is the wrapped export shape. Bare arrays are also
// accepted for hand-written files.
type chainsDocument struct {
	Chains []*model.AttackChain `json:"chains"`
}

// LoadChainsJSON reads attack chains from a JSON export. A missing
// file is not an error: chains are optional companions to a topology.
func LoadChainsJSON(path string) ([]*model.AttackChain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read chains file: %w", err)
	}

	var doc chainsDocument
	if err := json.Unmarshal(data, &doc); err == nil && doc.Chains != nil {
		return doc.Chains, nil
	}

	var bare []*model.AttackChain
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("cannot parse chains %s: %w", path, err)
	}
	return bare, nil
}

// countTopologyJSON parses just far enough to validate the file and
// count its nodes.
func countTopologyJSON(path string) (int, error) {
	topo, err := LoadTopologyJSON(path)
	if err != nil {
		return 0, err
	}
	return len(topo.Nodes), nil
}
