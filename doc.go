/*
Package megaverse synchronizes a remote grid-based map with a target layout.

It reads a goal grid, interprets every cell token (SPACE, POLYANET, <DIRECTION>_COMETH,
<COLOR>_SOLOON) and issues one creation request per entity, strictly in row-major order.
Each request is retried with exponential backoff and jitter; a request that exhausts its
budget is logged and skipped without stopping the run.

# Concept

The Synchronizer is wired from ports: a GoalSource produces the grid, a Dispatcher delivers
requests. Adapters cover the live API (pkg/adapters/crossmint), a fixed cross pattern
(pkg/adapters/pattern), local goal files (pkg/adapters/file) and in-memory recording for dry
runs and tests (pkg/adapters/memory).

# Usage

	client, err := crossmint.New(crossmint.DefaultBaseURL, candidateID)
	if err != nil {
		log.Fatal(err)
	}

	sync, err := megaverse.New(candidateID, client, client)
	if err != nil {
		log.Fatal(err)
	}

	report, err := sync.Run(ctx)
	if err != nil {
		log.Fatal(err) // goal unavailable
	}
	fmt.Println(report.Delivered, "entities created")
*/
package megaverse
