/*
Package crz provides the host surface for the CRZ node pack: typed node
descriptors, the Prep/Exec/Post node lifecycle, action-routed graphs and
the explicit Host context handed to every node invocation.

Basic usage:

	double := crz.NewNode("double", crz.Steps{},
		crz.WithExec(func(ctx context.Context, in int) (int, error) {
			return in * 2, nil
		}),
	)

	graph := crz.NewGraph(double, crz.NewStore(), crz.NewHost())
	result, err := graph.Run(context.Background(), 21)

Pack nodes are built from YAML graph definitions by the builtin and yaml
packages; every node receives the Host, which carries the dashboard
ValueRegistry, the preference store, the image input directory and the
logger.

Error policy:

Pack nodes never surface internal failures to the graph. Exec errors and
panics are converted into the node's safe default output by its Fallback
step. Only host-level problems (malformed graphs, unknown node types,
unbound required inputs) are returned as errors.

Branch suspension:

A node may ask the host to skip downstream evaluation of one of its
outputs by emitting Host.Block() in that slot. Nodes whose evaluated
input is blocked are skipped and their own outputs become blocked:

	if crz.IsBlocked(v) {
		// downstream of a closed gate
	}

Outputs are stored under OutputKey(node, slot), where slot is the slot
index or the output name, so later nodes can link to them.
*/
package crz
