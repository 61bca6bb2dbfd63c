package sec

import (
	"math/rand/v2"
	"testing"
)

func benchmarkCompute(b *testing.B, n int) {
	rng := rand.New(rand.NewPCG(1, 1))
	pts := randomPoints(rng, n, 10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := Compute(pts); !ok {
			b.Fatal("no circle")
		}
	}
}

func BenchmarkCompute100(b *testing.B)    { benchmarkCompute(b, 100) }
func BenchmarkCompute10000(b *testing.B)  { benchmarkCompute(b, 10000) }
func BenchmarkCompute100000(b *testing.B) { benchmarkCompute(b, 100000) }
