package datasource

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cbayliss/netweave/pkg/model"
)

// SQLiteReader provides read access to a scanner-produced database.
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a scanner database for reading.
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	// Open in read-only mode; the scanner may still be writing.
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000&_journal_mode=WAL", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA cache_size = -64000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		_, _ = db.Exec(pragma)
	}

	return &SQLiteReader{db: db, path: source.Path}, nil
}

// Close closes the database connection.
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadTopology reads all nodes and edges.
func (r *SQLiteReader) LoadTopology() (*model.Topology, error) {
	nodes, err := r.loadNodes()
	if err != nil {
		return nil, err
	}
	edges, err := r.loadEdges()
	if err != nil {
		return nil, err
	}
	return &model.Topology{Nodes: nodes, Edges: edges}, nil
}

func (r *SQLiteReader) loadNodes() ([]*model.GraphNode, error) {
	query := `
		SELECT id, kind, label, severity, vuln_count, color
		FROM nodes
		ORDER BY id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		// Older scanner schemas lack the metadata columns.
		return r.loadNodesSimple()
	}
	defer rows.Close()

	var nodes []*model.GraphNode
	for rows.Next() {
		var (
			n         model.GraphNode
			kind      string
			label     sql.NullString
			severity  sql.NullString
			vulnCount sql.NullInt64
			color     sql.NullString
		)
		if err := rows.Scan(&n.ID, &kind, &label, &severity, &vulnCount, &color); err != nil {
			continue
		}
		n.Kind = model.NodeKind(kind)
		if label.Valid {
			n.Label = label.String
		}
		if severity.Valid {
			n.Metadata.Severity = model.Severity(severity.String)
		}
		if vulnCount.Valid {
			n.Metadata.VulnCount = int(vulnCount.Int64)
		}
		if color.Valid {
			n.Metadata.Color = color.String
		}
		nodes = append(nodes, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nodes: %w", err)
	}
	return nodes, nil
}

// loadNodesSimple is a fallback for databases with fewer columns.
func (r *SQLiteReader) loadNodesSimple() ([]*model.GraphNode, error) {
	rows, err := r.db.Query(`SELECT id, kind, label FROM nodes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var nodes []*model.GraphNode
	for rows.Next() {
		var (
			n     model.GraphNode
			kind  string
			label sql.NullString
		)
		if err := rows.Scan(&n.ID, &kind, &label); err != nil {
			continue
		}
		n.Kind = model.NodeKind(kind)
		if label.Valid {
			n.Label = label.String
		}
		nodes = append(nodes, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nodes: %w", err)
	}
	return nodes, nil
}

func (r *SQLiteReader) loadEdges() ([]model.GraphEdge, error) {
	rows, err := r.db.Query(`SELECT source_id, target_id FROM edges`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var edges []model.GraphEdge
	for rows.Next() {
		var e model.GraphEdge
		if err := rows.Scan(&e.Source, &e.Target); err != nil {
			continue
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating edges: %w", err)
	}
	return edges, nil
}

// LoadChains reads attack chains with their ordered hops. Databases
// without chain tables yield no chains, not an error.
func (r *SQLiteReader) LoadChains() ([]*model.AttackChain, error) {
	rows, err := r.db.Query(`SELECT id, name, color FROM chains ORDER BY id`)
	if err != nil {
		return nil, nil
	}
	defer rows.Close()

	var chains []*model.AttackChain
	for rows.Next() {
		var (
			ch    model.AttackChain
			name  sql.NullString
			color sql.NullString
		)
		if err := rows.Scan(&ch.ID, &name, &color); err != nil {
			continue
		}
		if name.Valid {
			ch.Name = name.String
		}
		if color.Valid {
			ch.Color = color.String
		}
		ch.Nodes = r.loadChainNodes(ch.ID)
		chains = append(chains, &ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chains: %w", err)
	}
	return chains, nil
}

// loadChainNodes is a best-effort helper that returns nil on error.
func (r *SQLiteReader) loadChainNodes(chainID string) []model.ChainNode {
	query := `
		SELECT entity_type, entity_id, sequence_order,
		       method_notes, is_branch_point, branch_description
		FROM chain_nodes
		WHERE chain_id = ?
		ORDER BY sequence_order
	`
	rows, err := r.db.Query(query, chainID)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var hops []model.ChainNode
	for rows.Next() {
		var (
			hop        model.ChainNode
			entityType string
			notes      sql.NullString
			branch     sql.NullInt64
			branchDesc sql.NullString
		)
		if err := rows.Scan(&entityType, &hop.EntityID, &hop.SequenceOrder,
			&notes, &branch, &branchDesc); err != nil {
			continue
		}
		hop.EntityType = model.NodeKind(entityType)
		if notes.Valid {
			hop.MethodNotes = notes.String
		}
		hop.IsBranchPoint = branch.Valid && branch.Int64 != 0
		if branchDesc.Valid {
			hop.BranchDescription = branchDesc.String
		}
		hops = append(hops, hop)
	}
	return hops
}

// CountNodes returns the number of nodes in the database.
func (r *SQLiteReader) CountNodes() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM nodes`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
