// Package network implements the directed acyclic probabilistic graphical
// model that samples a base fingerprint assignment under optional
// evidence. It has no notion of browsers or headers — those meanings are
// supplied by the tables package that builds a concrete Network; this
// package only knows nodes, conditional probability tables, and the
// sampling algorithm.
package network

import (
	"fmt"
	"sort"
	"strconv"

	"fpsynth/internal/rng"
)

// NodeKind distinguishes categorical nodes (sampled by label) from
// numerical nodes (sampled as a Gaussian, then clamped and rounded).
type NodeKind int

const (
	Categorical NodeKind = iota
	Numerical
)

// CategoricalRow is an unconditional or per-condition-key categorical
// distribution: ordered labels with parallel weights summing to 1.
type CategoricalRow struct {
	Labels  []string
	Weights []float64
}

// GaussianRow is an unconditional or per-condition-key Gaussian
// distribution together with the legal clamp range for its node.
type GaussianRow struct {
	Mean     float64
	Variance float64
	Min      int
	Max      int
}

// ConditionalCategorical is one CPT row: the condition key (parent values
// joined by "|" in declaration order) mapped to a categorical row. Rows are
// kept in a slice, not a map, so insertion order is well-defined for the
// "first row wins" fallback (spec §4.1, §9 "CPT storage").
type ConditionalCategorical struct {
	Key string
	Row CategoricalRow
}

// ConditionalGaussian is the Gaussian analogue of ConditionalCategorical.
type ConditionalGaussian struct {
	Key string
	Row GaussianRow
}

// Distribution is a tagged union over the four shapes a node's
// distribution can take: unconditional categorical, unconditional
// Gaussian, conditional categorical, or conditional Gaussian.
type Distribution struct {
	Unconditional            *CategoricalRow
	UnconditionalGaussian    *GaussianRow
	Conditional              []ConditionalCategorical
	ConditionalGaussian      []ConditionalGaussian
	// ScreenResolutionFallback enables the special "{device_type}|<any>"
	// fallback described in spec §4.1, used only by the screen_resolution
	// node.
	ScreenResolutionFallback bool
}

// Node is one variable in the network.
type Node struct {
	Name         string
	Kind         NodeKind
	Parents      []string
	Distribution Distribution
}

// Assignment maps a node name to its sampled (or supplied) value. Numerical
// values are stored as their base-10 string form so that condition-key
// construction is uniform across node kinds.
type Assignment map[string]string

// InvalidEvidence is returned when caller-supplied evidence names a value
// outside a node's legal value set.
type InvalidEvidence struct {
	Node  string
	Value string
}

func (e *InvalidEvidence) Error() string {
	return fmt.Sprintf("invalid evidence for node %q: value %q is not in its legal value set", e.Node, e.Value)
}

// MissingDistribution is returned when a reachable (node, condition-key)
// combination has no CPT row and the fallback policy also fails.
type MissingDistribution struct {
	Node          string
	ConditionKey  string
}

func (e *MissingDistribution) Error() string {
	return fmt.Sprintf("no distribution for node %q under condition key %q, and fallback failed", e.Node, e.ConditionKey)
}

// ConfigurationError is returned at construction time when the declared
// graph is cyclic or a categorical distribution's weights do not sum to 1.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("network configuration error: %s", e.Reason)
}

const probabilityEpsilon = 1e-6

// Network is an immutable DAG of Nodes with a cached topological order,
// built once at orchestrator construction time and never mutated
// afterward (spec §3.5).
type Network struct {
	nodes     map[string]*Node
	topoOrder []string
}

// NewNetwork validates acyclicity and probability-mass conservation, then
// computes and caches a topological order via iterative Kahn's algorithm.
func NewNetwork(nodeList []*Node) (*Network, error) {
	nodes := make(map[string]*Node, len(nodeList))
	for _, n := range nodeList {
		nodes[n.Name] = n
	}

	for _, n := range nodeList {
		for _, p := range n.Parents {
			if _, ok := nodes[p]; !ok {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("node %q declares unknown parent %q", n.Name, p)}
			}
		}
		if err := validateProbabilityMass(n); err != nil {
			return nil, err
		}
	}

	order, err := kahnTopologicalSort(nodeList)
	if err != nil {
		return nil, err
	}

	return &Network{nodes: nodes, topoOrder: order}, nil
}

func validateProbabilityMass(n *Node) error {
	check := func(row CategoricalRow, context string) error {
		if len(row.Labels) == 0 {
			return nil
		}
		sum := 0.0
		for _, w := range row.Weights {
			sum += w
		}
		if diff := sum - 1.0; diff < -probabilityEpsilon || diff > probabilityEpsilon {
			return &ConfigurationError{Reason: fmt.Sprintf("node %q %s: probabilities sum to %v, want 1±%v", n.Name, context, sum, probabilityEpsilon)}
		}
		return nil
	}

	if n.Distribution.Unconditional != nil {
		if err := check(*n.Distribution.Unconditional, "unconditional distribution"); err != nil {
			return err
		}
	}
	for _, row := range n.Distribution.Conditional {
		if err := check(row.Row, fmt.Sprintf("conditional row %q", row.Key)); err != nil {
			return err
		}
	}
	return nil
}

// kahnTopologicalSort computes a topological order iteratively (not
// recursively, per spec §4.1, since the graph may grow) using Kahn's
// algorithm. Node iteration at each step is over a sorted candidate set so
// the order is deterministic across runs for a given declaration.
func kahnTopologicalSort(nodeList []*Node) ([]string, error) {
	inDegree := make(map[string]int, len(nodeList))
	children := make(map[string][]string, len(nodeList))
	for _, n := range nodeList {
		if _, ok := inDegree[n.Name]; !ok {
			inDegree[n.Name] = 0
		}
		for _, p := range n.Parents {
			inDegree[n.Name]++
			children[p] = append(children[p], n.Name)
		}
	}

	var ready []string
	for _, n := range nodeList {
		if inDegree[n.Name] == 0 {
			ready = append(ready, n.Name)
		}
	}
	sort.Strings(ready)

	var order []string
	for len(ready) > 0 {
		sort.Strings(ready)
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		for _, child := range children[next] {
			inDegree[child]--
			if inDegree[child] == 0 {
				ready = append(ready, child)
			}
		}
	}

	if len(order) != len(nodeList) {
		return nil, &ConfigurationError{Reason: "graph contains a cycle"}
	}
	return order, nil
}

// TopologicalOrder returns the cached node evaluation order.
func (net *Network) TopologicalOrder() []string {
	out := make([]string, len(net.topoOrder))
	copy(out, net.topoOrder)
	return out
}

// Node returns the named node, or nil if it does not exist.
func (net *Network) Node(name string) *Node {
	return net.nodes[name]
}

// legalValues returns the full set of labels a categorical node can ever
// take, across its unconditional row or every conditional row, for
// evidence validation.
func legalValues(n *Node) map[string]bool {
	out := map[string]bool{}
	if n.Distribution.Unconditional != nil {
		for _, l := range n.Distribution.Unconditional.Labels {
			out[l] = true
		}
	}
	for _, row := range n.Distribution.Conditional {
		for _, l := range row.Row.Labels {
			out[l] = true
		}
	}
	return out
}

// Sample produces a full assignment consistent with the supplied evidence,
// sampling every unspecified node from its conditional distribution in
// topological order (spec §4.1).
func (net *Network) Sample(source *rng.Source, evidence Assignment) (Assignment, []string, error) {
	assignment := Assignment{}
	var warnings []string

	for node, value := range evidence {
		n := net.nodes[node]
		if n == nil {
			return nil, nil, &InvalidEvidence{Node: node, Value: value}
		}
		if n.Kind == Categorical {
			if legal := legalValues(n); len(legal) > 0 && !legal[value] {
				return nil, nil, &InvalidEvidence{Node: node, Value: value}
			}
		}
	}

	for _, name := range net.topoOrder {
		n := net.nodes[name]

		if v, ok := evidence[name]; ok {
			assignment[name] = v
			continue
		}

		switch n.Kind {
		case Categorical:
			value, warn, err := net.sampleCategorical(source, n, assignment)
			if err != nil {
				return nil, nil, err
			}
			assignment[name] = value
			if warn != "" {
				warnings = append(warnings, warn)
			}
		case Numerical:
			value, warn, err := net.sampleGaussian(source, n, assignment)
			if err != nil {
				return nil, nil, err
			}
			assignment[name] = strconv.Itoa(value)
			if warn != "" {
				warnings = append(warnings, warn)
			}
		}
	}

	return assignment, warnings, nil
}

// conditionKey builds the condition key for a node: its parents' currently
// assigned values joined by "|" in declaration order (spec §4.1).
func conditionKey(n *Node, assignment Assignment) string {
	if len(n.Parents) == 0 {
		return ""
	}
	key := assignment[n.Parents[0]]
	for _, p := range n.Parents[1:] {
		key += "|" + assignment[p]
	}
	return key
}

func (net *Network) sampleCategorical(source *rng.Source, n *Node, assignment Assignment) (string, string, error) {
	if n.Distribution.Unconditional != nil {
		row := n.Distribution.Unconditional
		return source.Categorical(row.Labels, row.Weights), "", nil
	}

	key := conditionKey(n, assignment)
	for _, row := range n.Distribution.Conditional {
		if row.Key == key {
			return source.Categorical(row.Row.Labels, row.Row.Weights), "", nil
		}
	}

	// Fallback policy (spec §4.1): screen_resolution tries
	// "{device_type}|<any-platform>" first, by matching on the first
	// path segment of the key.
	if n.Distribution.ScreenResolutionFallback {
		prefix := key
		if idx := indexOf(key, '|'); idx >= 0 {
			prefix = key[:idx]
		}
		for _, row := range n.Distribution.Conditional {
			if rowPrefix := row.Key; len(rowPrefix) >= len(prefix) && rowPrefix[:len(prefix)] == prefix {
				warn := fmt.Sprintf("node %q: no exact CPT row for %q, used device-type fallback row %q", n.Name, key, row.Key)
				return source.Categorical(row.Row.Labels, row.Row.Weights), warn, nil
			}
		}
	}

	if len(n.Distribution.Conditional) > 0 {
		row := n.Distribution.Conditional[0]
		warn := fmt.Sprintf("node %q: no CPT row for %q, used first declared row %q", n.Name, key, row.Key)
		return source.Categorical(row.Row.Labels, row.Row.Weights), warn, nil
	}

	return "", "", &MissingDistribution{Node: n.Name, ConditionKey: key}
}

func (net *Network) sampleGaussian(source *rng.Source, n *Node, assignment Assignment) (int, string, error) {
	var row *GaussianRow
	var warn string

	if n.Distribution.UnconditionalGaussian != nil {
		row = n.Distribution.UnconditionalGaussian
	} else {
		key := conditionKey(n, assignment)
		for i := range n.Distribution.ConditionalGaussian {
			if n.Distribution.ConditionalGaussian[i].Key == key {
				row = &n.Distribution.ConditionalGaussian[i].Row
				break
			}
		}
		if row == nil {
			if len(n.Distribution.ConditionalGaussian) == 0 {
				return 0, "", &MissingDistribution{Node: n.Name, ConditionKey: key}
			}
			row = &n.Distribution.ConditionalGaussian[0].Row
			warn = fmt.Sprintf("node %q: no CPT row for %q, used first declared row %q", n.Name, key, n.Distribution.ConditionalGaussian[0].Key)
		}
	}

	raw := source.Gaussian(row.Mean, row.Variance)
	value := int(raw + 0.5)
	if value < row.Min {
		value = row.Min
	}
	if value > row.Max {
		value = row.Max
	}
	return value, warn, nil
}

func indexOf(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}
