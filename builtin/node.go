package builtin

import (
	"context"
	"fmt"

	"github.com/crznodes/crz"
	"github.com/crznodes/crz/yaml"
)

// call is one invocation of a pack node: its bound inputs and the host it
// runs in. It is the Prep result handed to Exec and Post.
type call struct {
	node string
	host *crz.Host
	in   crz.Inputs

	// next is the routing action chosen by run. Empty means default.
	next string
}

func (c *call) input(name string) any {
	return c.in[name]
}

// behavior is what distinguishes one pack node from another.
type behavior struct {
	// needed names the lazy inputs to evaluate given the eager ones.
	needed func(in crz.Inputs) []string

	run func(ctx context.Context, c *call) (crz.Outputs, error)

	// fallback is the safe result used when run fails or panics.
	fallback func(c *call) crz.Outputs

	// publish runs after outputs are stored, for registry side effects.
	publish func(ctx context.Context, c *call, out crz.Outputs)
}

// newPackNode wires a behavior into the Prep/Exec/Fallback/Post lifecycle.
func newPackNode(def *yaml.NodeDefinition, desc *crz.Descriptor, bh behavior) crz.Node {
	b := &binder{desc: desc, def: def}

	return crz.NewNode(def.Name, crz.Steps{
		Prep: func(ctx context.Context, host *crz.Host, store crz.StoreReader, input any) (any, error) {
			in, err := b.bind(ctx, store, input, bh.needed)
			if err != nil {
				return nil, err
			}
			return &call{node: def.Name, host: host, in: in}, nil
		},
		Exec: func(ctx context.Context, prepResult any) (any, error) {
			return bh.run(ctx, prepResult.(*call))
		},
		Fallback: func(ctx context.Context, prepResult any, execErr error) (any, error) {
			c := prepResult.(*call)
			c.host.Log().Error(ctx, "node failed, using safe default",
				"node", c.node, "type", desc.Name, "error", execErr)
			c.next = ""
			return bh.fallback(c), nil
		},
		Post: func(ctx context.Context, host *crz.Host, store crz.StoreWriter, input, prepResult, execResult any) (any, string, error) {
			c := prepResult.(*call)
			out, ok := execResult.(crz.Outputs)
			if !ok {
				return nil, "", fmt.Errorf("%w: %s produced %T", crz.ErrInvalidInput, def.Name, execResult)
			}
			if err := crz.SetOutputs(ctx, store, def.Name, desc, out); err != nil {
				return nil, "", fmt.Errorf("store outputs: %w", err)
			}
			if bh.publish != nil {
				bh.publish(ctx, c, out)
			}

			next := c.next
			if next == "" {
				next = crz.DefaultAction
			}
			return forward(desc, out, next), next, nil
		},
	}, crz.WithDescriptor(desc))
}

// forward picks the value handed to the successor: the output named after
// the action, or slot 0.
func forward(desc *crz.Descriptor, out crz.Outputs, next string) any {
	slot := desc.OutputIndex(next)
	if slot < 0 {
		slot = 0
	}
	return out.At(slot)
}

// binder resolves a node's inputs for one invocation.
type binder struct {
	desc *crz.Descriptor
	def  *yaml.NodeDefinition
}

// bind resolves every eager input, then the lazy inputs needed asks for.
// Each input takes, in order: its literal or linked value from the graph
// file, the flowing value (primary input only), its default. A blocked
// value in any evaluated input aborts with crz.ErrBlocked.
func (b *binder) bind(ctx context.Context, store crz.StoreReader, flow any, needed func(crz.Inputs) []string) (crz.Inputs, error) {
	in := make(crz.Inputs, len(b.desc.Inputs))
	primary, hasPrimary := b.desc.PrimaryInput()

	for _, spec := range b.desc.Inputs {
		if spec.Lazy {
			continue
		}
		v, ok, err := b.resolve(ctx, store, spec)
		if err != nil {
			return nil, err
		}
		if !ok && hasPrimary && spec.Name == primary.Name && flow != nil {
			v, ok = flow, true
		}
		if !ok && spec.HasDefault() {
			v, ok = spec.Default, true
		}
		if !ok {
			if spec.Section == crz.Required {
				return nil, fmt.Errorf("%w: node %s: required input %q is not bound", crz.ErrInvalidInput, b.def.Name, spec.Name)
			}
			continue
		}
		in[spec.Name] = v
	}

	if needed != nil {
		for _, name := range needed(in) {
			spec, ok := b.desc.Input(name)
			if !ok || !spec.Lazy {
				continue
			}
			v, ok, err := b.resolve(ctx, store, spec)
			if err != nil {
				return nil, err
			}
			if !ok && spec.HasDefault() {
				v, ok = spec.Default, true
			}
			if ok {
				in[name] = v
			}
		}
	}

	for _, v := range in {
		if crz.IsBlocked(v) {
			return nil, crz.ErrBlocked
		}
	}
	return in, nil
}

// resolve returns the graph file binding for spec, following links into
// the store.
func (b *binder) resolve(ctx context.Context, store crz.StoreReader, spec crz.InputSpec) (any, bool, error) {
	raw, ok := b.def.Inputs[spec.Name]
	if !ok {
		return nil, false, nil
	}
	link, isLink := yaml.ParseLink(raw)
	if !isLink {
		return yaml.Unescape(raw), true, nil
	}
	v, exists := store.Get(ctx, link.Key())
	if !exists {
		return nil, false, fmt.Errorf("%w: node %s: input %q links to %s, which has not run", crz.ErrInvalidInput, b.def.Name, spec.Name, link)
	}
	return v, true, nil
}

// stringInput renders an input the way widget text is read: nil is empty,
// anything else must already be a string.
func stringInput(c *call, name string) (string, error) {
	switch v := c.input(name).(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("%w: input %q is %T, want string", crz.ErrInvalidInput, name, v)
	}
}
