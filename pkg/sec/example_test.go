package sec_test

import (
	"fmt"

	"github.com/matzehuels/puncta/pkg/sec"
)

func ExampleCompute() {
	c, ok := sec.Compute([]sec.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 3}})
	fmt.Println(ok)
	fmt.Printf("center=(%.2f, %.2f) radius=%.2f\n", c.Center.X, c.Center.Y, c.Radius)
	// Output:
	// true
	// center=(2.00, 1.50) radius=2.50
}

func ExampleCompute_empty() {
	_, ok := sec.Compute(nil)
	fmt.Println(ok)
	// Output:
	// false
}

func ExampleCircle_Area() {
	c, _ := sec.Compute([]sec.Point{{X: 0, Y: 0}, {X: 2, Y: 0}})
	fmt.Printf("%.4f\n", c.Area())
	// Output:
	// 3.1416
}
