package learning

import (
	"fmt"
	"math"
)

const weightDecay = 0.002 // soft forgetting on every accumulation

// y = A * x
func matVecMul(A [][]float64, x []float64) []float64 {
	y := make([]float64, len(A))
	for i := range A {
		sum := 0.0
		for j := range x {
			sum += A[i][j] * x[j]
		}
		y[i] = sum
	}
	return y
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// A := A + x x^T
func addOuter(A [][]float64, x []float64) {
	for i := range x {
		for j := range x {
			A[i][j] += x[i] * x[j]
		}
	}
}

// b := b + r x
func addScaled(b []float64, x []float64, r float64) {
	for i := range x {
		b[i] += r * x[i]
	}
}

// applyDecay scales down old contributions so recent observations dominate.
func applyDecay(A [][]float64, b []float64) {
	decay := 1.0 - weightDecay
	for i := range A {
		for j := range A[i] {
			A[i][j] *= decay
		}
		b[i] *= decay
	}
}

// invert runs Gauss-Jordan elimination on a square matrix.
func invert(A [][]float64) ([][]float64, error) {
	n := len(A)
	aug := make([][]float64, n)
	for i := range aug {
		aug[i] = make([]float64, 2*n)
		copy(aug[i], A[i])
		aug[i][n+i] = 1.0
	}

	for col := 0; col < n; col++ {
		pivot := aug[col][col]
		if math.Abs(pivot) < 1e-9 {
			return nil, fmt.Errorf("matrix is singular")
		}

		for j := 0; j < 2*n; j++ {
			aug[col][j] /= pivot
		}

		for i := 0; i < n; i++ {
			if i == col {
				continue
			}
			factor := aug[i][col]
			for j := 0; j < 2*n; j++ {
				aug[i][j] -= factor * aug[col][j]
			}
		}
	}

	inv := make([][]float64, n)
	for i := range inv {
		inv[i] = make([]float64, n)
		copy(inv[i], aug[i][n:])
	}
	return inv, nil
}

// identity builds lambda * I, the regularization seed for a fresh state.
func identity(n int, lambda float64) [][]float64 {
	A := make([][]float64, n)
	for i := range A {
		A[i] = make([]float64, n)
		A[i][i] = lambda
	}
	return A
}
