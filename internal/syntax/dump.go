package syntax

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toTree(node))
}

// FprintYAML writes a YAML representation of the AST to w.
func FprintYAML(w io.Writer, node Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toTree(node)); err != nil {
		return err
	}
	return enc.Close()
}

func toTree(node Node) interface{} {
	if node == nil {
		return nil
	}

	m := map[string]interface{}{
		"type": nodeName(node),
		"pos":  node.Pos().String(),
	}
	switch n := node.(type) {
	case *Root:
		m["body"] = listTree(n.Body)
	case *Loop:
		m["end"] = n.Rbrack.String()
		m["body"] = listTree(n.Body)
	case Counted:
		m["count"] = n.Times()
	}
	return m
}

func listTree(list []Stmt) []interface{} {
	out := make([]interface{}, len(list))
	for i, s := range list {
		out[i] = toTree(s)
	}
	return out
}
