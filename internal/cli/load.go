package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/invoice-engine/internal/invoice"
)

// loadInvoice reads an invoice from path, or stdin when path is "-". YAML files are
// converted to JSON first so both formats share the JSON field names. YAML numbers
// keep their literal digits so prices never pass through float64.
func loadInvoice(path string, stdin io.Reader) (invoice.Invoice, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return invoice.Invoice{}, fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return invoice.Invoice{}, fmt.Errorf("parse %s: %w", path, err)
		}
		tree, err := jsonValue(&doc)
		if err != nil {
			return invoice.Invoice{}, fmt.Errorf("convert %s: %w", path, err)
		}
		if data, err = json.Marshal(tree); err != nil {
			return invoice.Invoice{}, fmt.Errorf("convert %s: %w", path, err)
		}
	}

	var inv invoice.Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return invoice.Invoice{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return inv, nil
}

// jsonValue converts a YAML node tree into values json.Marshal encodes without
// loss. Plain numeric scalars become json.Number carrying the source text.
func jsonValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return jsonValue(n.Content[0])
	case yaml.AliasNode:
		return jsonValue(n.Alias)
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := jsonValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[n.Content[i].Value] = v
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := jsonValue(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	switch n.ShortTag() {
	case "!!str":
		return n.Value, nil
	case "!!int", "!!float":
		if d, err := decimal.NewFromString(n.Value); err == nil {
			return json.Number(d.String()), nil
		}
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	return v, nil
}
