package integration_test

import (
	"context"
	"fmt"

	"github.com/agbru/quadcalc/internal/integration"
)

func ExampleEngine_Integrate() {
	engine := integration.NewEngine(integration.WithOptions(integration.VariantMidpoint.Options()))

	// ∫₀² 3x² dx = 8
	value, err := engine.Integrate(context.Background(), func(x float64) float64 { return 3 * x * x }, 0, 2, 100_000)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%.6f\n", value)
	// Output: 8.000000
}

func ExamplePartition() {
	for _, iv := range integration.Partition(0, 1, 4) {
		fmt.Printf("[%.2f, %.2f] ", iv.Lower, iv.Upper)
	}
	fmt.Println()
	// Output: [0.00, 0.25] [0.25, 0.50] [0.50, 0.75] [0.75, 1.00]
}
