package metadata

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/nixworks/nixworks/errs"
)

// yamlTag returns the local tag marking kind k on a YAML node, or "" when the
// plain YAML type already implies it.
func yamlTag(k Kind, implied Kind) string {
	if k == implied {
		return ""
	}

	return "!" + k.String()
}

// MarshalYAML renders the record as an ordered mapping. Kinds that plain YAML
// cannot express are kept as local tags such as !tuple or !numpy.int64.
func (r *Record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range r.keys {
		val, err := valueNode(r.values[key])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, val)
	}

	return node, nil
}

// UnmarshalYAML reads a mapping written by MarshalYAML or by hand.
func (r *Record) UnmarshalYAML(node *yaml.Node) error {
	v, err := FromYAML(node)
	if err != nil {
		return err
	}
	rec, ok := v.(*Record)
	if !ok {
		return fmt.Errorf("%w: yaml %s is not a mapping", errs.ErrUnsupportedValue, node.ShortTag())
	}
	*r = *rec

	return nil
}

func valueNode(v Value) (*yaml.Node, error) {
	switch x := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case Scalar:
		return scalarNode(x.K, x.V)
	case Vector:
		node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle, Tag: yamlTag(x.K, KindList)}
		for _, item := range x.Items {
			n, err := scalarNode(0, item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, n)
		}

		return node, nil
	case *Record:
		out, err := x.MarshalYAML()
		if err != nil {
			return nil, err
		}

		return out.(*yaml.Node), nil
	case RecordList:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: yamlTag(x.K, KindList)}
		for _, item := range x.Items {
			n, err := valueNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, n)
		}

		return node, nil
	case *NDArray:
		if x.Size() != len(x.Data) {
			return nil, fmt.Errorf("%w: %d values for shape %v", errs.ErrShapeMismatch, len(x.Data), x.Shape)
		}

		return arrayNode(x.Shape, x.Data), nil
	case *Transform:
		fields := NewRecord().
			Set("from", Scalar{K: KindInt, V: x.From}).
			Set("to", Scalar{K: KindInt, V: x.To})
		if x.Trans != nil {
			fields.Set("trans", NDArrayFromDense(x.Trans))
		}
		out, err := fields.MarshalYAML()
		if err != nil {
			return nil, err
		}
		node := out.(*yaml.Node)
		node.Tag = "!" + KindTransform.String()

		return node, nil
	default:
		return nil, fmt.Errorf("%w: %T", errs.ErrUnsupportedValue, v)
	}
}

// scalarNode encodes a single value. A zero kind means the plain YAML type.
func scalarNode(k Kind, v any) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.ScalarNode}
	switch x := v.(type) {
	case string:
		node.Tag, node.Value = "!!str", x
	case int64:
		node.Tag, node.Value = "!!int", strconv.FormatInt(x, 10)
	case float64:
		node.Tag, node.Value = "!!float", formatFloat(x)
	case bool:
		node.Tag, node.Value = "!!bool", strconv.FormatBool(x)
	default:
		return nil, fmt.Errorf("%w: %T", errs.ErrUnsupportedValue, v)
	}
	if k != 0 && k != impliedKind(v) {
		node.Tag = "!" + k.String()
	}

	return node, nil
}

func impliedKind(v any) Kind {
	switch v.(type) {
	case string:
		return KindStr
	case int64:
		return KindInt
	case float64:
		return KindFloat
	case bool:
		return KindBool
	default:
		return 0
	}
}

// formatFloat keeps a fractional part so integral floats read back as floats.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}

// arrayNode nests the row-major data into one flow sequence per leading axis.
func arrayNode(shape []int, data []float64) *yaml.Node {
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	if len(shape) == 1 {
		for _, f := range data {
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(f)})
		}

		return node
	}

	stride := len(data) / max(shape[0], 1)
	for i := 0; i < shape[0]; i++ {
		node.Content = append(node.Content, arrayNode(shape[1:], data[i*stride:(i+1)*stride]))
	}

	return node
}

// FromYAML classifies a YAML node into a Value.
//
// Mappings become records in document order, sequences of mappings become
// record lists, rectangular nested sequences of numbers become NDArrays and
// sequences of scalars become vectors. Local tags written by MarshalYAML
// restore the declared kind.
//
// Parameters:
//   - node: Document, mapping, sequence or scalar node
//
// Returns:
//   - Value: Classified value, nil for null
//   - error: ErrUnknownValueKind for an unregistered local tag,
//     ErrUnsupportedValue for aliases or anything else that cannot be stored
func FromYAML(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}

		return FromYAML(node.Content[0])
	case yaml.MappingNode:
		return mappingFromYAML(node)
	case yaml.SequenceNode:
		return sequenceFromYAML(node)
	case yaml.ScalarNode:
		return scalarFromYAML(node)
	default:
		return nil, fmt.Errorf("%w: yaml node kind %d at line %d", errs.ErrUnsupportedValue, node.Kind, node.Line)
	}
}

// localKind parses a local tag such as !tuple. ok is false for standard tags.
func localKind(node *yaml.Node) (Kind, bool, error) {
	tag := node.Tag
	if !strings.HasPrefix(tag, "!") || strings.HasPrefix(tag, "!!") {
		return 0, false, nil
	}

	k, err := ParseKind(tag[1:])
	if err != nil {
		return 0, false, err
	}

	return k, true, nil
}

func mappingFromYAML(node *yaml.Node) (Value, error) {
	rec := NewRecord()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		v, err := FromYAML(node.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		rec.Set(key, v)
	}

	k, ok, err := localKind(node)
	if err != nil {
		return nil, err
	}
	if !ok || k != KindTransform {
		return rec, nil
	}

	from, err := rec.Int("from")
	if err != nil {
		return nil, err
	}
	to, err := rec.Int("to")
	if err != nil {
		return nil, err
	}
	t := &Transform{From: int64(from), To: int64(to)}
	if arr, ok := rec.values["trans"].(*NDArray); ok {
		if t.Trans, err = arr.Dense(); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func sequenceFromYAML(node *yaml.Node) (Value, error) {
	kind, tagged, err := localKind(node)
	if err != nil {
		return nil, err
	}
	if !tagged {
		kind = KindList
	}
	if len(node.Content) == 0 {
		return Vector{K: kind}, nil
	}

	switch node.Content[0].Kind {
	case yaml.MappingNode:
		list := RecordList{K: kind}
		for i, item := range node.Content {
			v, err := FromYAML(item)
			if err != nil {
				return nil, err
			}
			rec, ok := v.(*Record)
			if !ok {
				return nil, fmt.Errorf("%w: item %d of record list is %s", errs.ErrUnsupportedValue, i, v.Kind())
			}
			list.Items = append(list.Items, rec)
		}

		return list, nil
	case yaml.SequenceNode:
		c := &arrayCollector{leaf: -1}
		if err := c.collect(node, 0); err != nil {
			return nil, err
		}
		if c.arr.Size() != len(c.arr.Data) {
			return nil, fmt.Errorf("%w: ragged sequence at line %d", errs.ErrShapeMismatch, node.Line)
		}

		return &c.arr, nil
	}

	vec := Vector{K: kind, Items: make([]any, len(node.Content))}
	for i, item := range node.Content {
		v, err := scalarFromYAML(item)
		if err != nil {
			return nil, err
		}
		s, ok := v.(Scalar)
		if !ok {
			return nil, fmt.Errorf("%w: item %d of sequence at line %d", errs.ErrUnsupportedValue, i, item.Line)
		}
		vec.Items[i] = s.V
	}

	return vec, nil
}

// arrayCollector flattens nested sequences, fixing the extent of each depth
// on first visit and rejecting ragged input.
type arrayCollector struct {
	arr  NDArray
	leaf int
}

func (c *arrayCollector) collect(node *yaml.Node, depth int) error {
	if depth == len(c.arr.Shape) {
		c.arr.Shape = append(c.arr.Shape, len(node.Content))
	} else if c.arr.Shape[depth] != len(node.Content) {
		return fmt.Errorf("%w: ragged sequence at line %d", errs.ErrShapeMismatch, node.Line)
	}

	for _, item := range node.Content {
		if item.Kind == yaml.SequenceNode {
			if c.leaf >= 0 && depth+1 > c.leaf {
				return fmt.Errorf("%w: ragged sequence at line %d", errs.ErrShapeMismatch, item.Line)
			}
			if err := c.collect(item, depth+1); err != nil {
				return err
			}
			continue
		}

		if c.leaf < 0 {
			c.leaf = depth
		} else if c.leaf != depth {
			return fmt.Errorf("%w: ragged sequence at line %d", errs.ErrShapeMismatch, item.Line)
		}
		var f float64
		if err := item.Decode(&f); err != nil {
			return fmt.Errorf("%w: line %d: %w", errs.ErrUnsupportedValue, item.Line, err)
		}
		c.arr.Data = append(c.arr.Data, f)
	}

	return nil
}

func scalarFromYAML(node *yaml.Node) (Value, error) {
	if node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("%w: expected scalar at line %d", errs.ErrUnsupportedValue, node.Line)
	}

	declared, tagged, err := localKind(node)
	if err != nil {
		return nil, err
	}

	// Local tags are not resolvable by the decoder, so resolve the plain text.
	plain := *node
	if tagged {
		plain.Tag = ""
	}

	var v any
	switch plain.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!int":
		var i int64
		err = plain.Decode(&i)
		v = i
	case "!!float":
		var f float64
		err = plain.Decode(&f)
		v = f
	case "!!bool":
		var b bool
		err = plain.Decode(&b)
		v = b
	default:
		v = node.Value
	}
	if err != nil {
		return nil, fmt.Errorf("%w: line %d: %w", errs.ErrUnsupportedValue, node.Line, err)
	}
	if !tagged {
		return Scalar{K: impliedKind(v), V: v}, nil
	}

	switch declared {
	case KindInt, KindInt64:
		v, err = cast.ToInt64E(v)
	case KindFloat, KindFloat64:
		v, err = cast.ToFloat64E(v)
	case KindStr:
		v = node.Value
	case KindDict, KindTransform:
		return nil, fmt.Errorf("%w: %s is not a scalar kind", errs.ErrUnsupportedValue, declared)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: line %d: %w", errs.ErrUnsupportedValue, node.Line, err)
	}

	return Scalar{K: declared, V: v}, nil
}
