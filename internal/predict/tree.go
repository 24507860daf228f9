package predict

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// KindTree is a gradient boosted tree ensemble in the XGBoost JSON dump
// format.
const KindTree = "gbtree"

// TreeNode is one node of a dumped tree. Leaves carry Leaf; split nodes
// send x < SplitCondition to Yes, the rest to No and NaN to Missing.
type TreeNode struct {
	NodeID         int        `json:"nodeid"`
	Split          string     `json:"split,omitempty"`
	SplitCondition float64    `json:"split_condition,omitempty"`
	Yes            int        `json:"yes,omitempty"`
	No             int        `json:"no,omitempty"`
	Missing        int        `json:"missing,omitempty"`
	Leaf           *float64   `json:"leaf,omitempty"`
	Children       []TreeNode `json:"children,omitempty"`
}

// TreeModel sums the leaves reached in every tree on top of BaseScore.
type TreeModel struct {
	BaseScore  float64    `json:"base_score"`
	Features   []string   `json:"feature_names,omitempty"`
	NumFeature int        `json:"num_features"`
	Trees      []TreeNode `json:"trees"`

	flat []flatTree
}

type flatNode struct {
	feature   int
	threshold float64
	yes       int
	no        int
	missing   int
	leaf      float64
	isLeaf    bool
}

// flatTree indexes nodes by node id.
type flatTree map[int]flatNode

func decodeTree(data []byte) (Model, error) {
	var m TreeModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode tree model: %w", err)
	}
	if len(m.Trees) == 0 {
		return nil, errors.New("tree model has no trees")
	}
	if m.NumFeature == 0 {
		m.NumFeature = len(m.Features)
	}
	if m.NumFeature == 0 {
		return nil, errors.New("tree model: num_features or feature_names required")
	}
	if m.Features != nil && len(m.Features) != m.NumFeature {
		return nil, fmt.Errorf("tree model: %d feature names for %d features", len(m.Features), m.NumFeature)
	}
	for i, root := range m.Trees {
		ft := flatTree{}
		if err := m.flatten(root, ft); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		if err := ft.check(root.NodeID); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		m.flat = append(m.flat, ft)
	}
	return &m, nil
}

func (m *TreeModel) flatten(n TreeNode, ft flatTree) error {
	if _, dup := ft[n.NodeID]; dup {
		return fmt.Errorf("duplicate node id %d", n.NodeID)
	}
	if n.Leaf != nil {
		ft[n.NodeID] = flatNode{leaf: *n.Leaf, isLeaf: true}
		return nil
	}
	f, err := m.featureIndex(n.Split)
	if err != nil {
		return fmt.Errorf("node %d: %w", n.NodeID, err)
	}
	missing := n.Missing
	if missing == 0 && n.Yes != 0 {
		missing = n.Yes
	}
	ft[n.NodeID] = flatNode{feature: f, threshold: n.SplitCondition, yes: n.Yes, no: n.No, missing: missing}
	for _, c := range n.Children {
		if err := m.flatten(c, ft); err != nil {
			return err
		}
	}
	return nil
}

// featureIndex resolves a split feature by name, or by "fN" when the dump
// carries no names.
func (m *TreeModel) featureIndex(split string) (int, error) {
	for i, name := range m.Features {
		if name == split {
			return i, nil
		}
	}
	if rest, ok := strings.CutPrefix(split, "f"); ok {
		if i, err := strconv.Atoi(rest); err == nil && i >= 0 && i < m.NumFeature {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown split feature %q", split)
}

// check verifies that every split points at existing nodes and that walks
// terminate.
func (ft flatTree) check(root int) error {
	for id, n := range ft {
		if n.isLeaf {
			continue
		}
		for _, next := range []int{n.yes, n.no, n.missing} {
			if _, ok := ft[next]; !ok {
				return fmt.Errorf("node %d points at missing node %d", id, next)
			}
		}
	}
	state := map[int]int{}
	var visit func(id int) error
	visit = func(id int) error {
		switch state[id] {
		case 1:
			return fmt.Errorf("cycle at node %d", id)
		case 2:
			return nil
		}
		state[id] = 1
		n := ft[id]
		if !n.isLeaf {
			for _, next := range []int{n.yes, n.no, n.missing} {
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		state[id] = 2
		return nil
	}
	if _, ok := ft[root]; !ok {
		return fmt.Errorf("missing root node %d", root)
	}
	return visit(root)
}

func (ft flatTree) eval(root int, row []float64) float64 {
	n := ft[root]
	for !n.isLeaf {
		v := row[n.feature]
		switch {
		case math.IsNaN(v):
			n = ft[n.missing]
		case v < n.threshold:
			n = ft[n.yes]
		default:
			n = ft[n.no]
		}
	}
	return n.leaf
}

func (m *TreeModel) Kind() string           { return KindTree }
func (m *TreeModel) NumFeatures() int       { return m.NumFeature }
func (m *TreeModel) FeatureNames() []string { return m.Features }

func (m *TreeModel) Predict(x mat.Matrix) ([]float64, error) {
	r, err := checkWidth(x, m.NumFeature)
	if err != nil {
		return nil, err
	}
	out := make([]float64, r)
	row := make([]float64, m.NumFeature)
	for i := range out {
		mat.Row(row, i, x)
		sum := m.BaseScore
		for k, ft := range m.flat {
			sum += ft.eval(m.Trees[k].NodeID, row)
		}
		out[i] = sum
	}
	return out, nil
}
