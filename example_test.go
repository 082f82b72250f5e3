package megaverse_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/megaverse"
	"github.com/aretw0/megaverse/pkg/adapters/memory"
	"github.com/aretw0/megaverse/pkg/domain"
)

// ExampleNew_dryRun synchronizes an in-memory goal against a recorder, which is what the
// CLI does with --dry-run.
func ExampleNew_dryRun() {
	goal := memory.NewGoal(domain.Grid{
		{"POLYANET", "SPACE"},
		{"DOWN_COMETH", "PURPLE_SOLOON"},
	})
	rec := memory.NewRecorder()

	sync, err := megaverse.New("candidate-123", goal, rec)
	if err != nil {
		log.Fatal(err)
	}

	report, err := sync.Run(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	for _, req := range rec.Requests() {
		fmt.Println(req)
	}
	fmt.Printf("delivered=%d empty=%d\n", report.Delivered, report.Empty)

	// Output:
	// polyanets(0,0)
	// comeths(1,0) direction=down
	// soloons(1,1) color=purple
	// delivered=3 empty=1
}
