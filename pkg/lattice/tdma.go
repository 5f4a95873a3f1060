package lattice

// TDMASolve solves a tridiagonal linear system Ax = d via the Thomas
// algorithm, where sub/diag/sup are the system's three diagonals (sub[0]
// and sup[n-1] are unused) and d is the right-hand side. diag and d are
// modified in place during forward elimination, matching the reference
// kernel; the solution is returned as a new slice.
func TDMASolve(sub, diag, sup, d []float64) []float64 {
	n := len(diag)
	sol := make([]float64, n)

	for i := 1; i < n; i++ {
		w := sub[i] / diag[i-1]
		diag[i] -= w * sup[i-1]
		d[i] -= w * d[i-1]
	}

	sol[n-1] = d[n-1] / diag[n-1]
	for i := n - 2; i >= 0; i-- {
		sol[i] = (d[i] - sup[i]*sol[i+1]) / diag[i]
	}
	return sol
}
