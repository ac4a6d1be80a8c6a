package attack

import "math"

// hungarianInf stands in for the cost of an assignment that should never be
// chosen; kept far below math.MaxFloat64 so potential arithmetic cannot
// overflow.
const hungarianInf = math.MaxFloat64 / 4

// solveAssignmentMin finds a minimum-weight perfect assignment over a
// square cost matrix (Kuhn–Munkres, O(n^3) potential-based formulation) and
// returns, for each row i, the column it was matched to. cost must be
// square; the ℓp attacker pads its auxiliary view and ciphertext histogram
// to equal length before calling this.
func solveAssignmentMin(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}

	// 1-indexed throughout, per the classical formulation: row/col 0 are
	// sentinels for "unassigned".
	a := make([][]float64, n+1)
	for i := 1; i <= n; i++ {
		a[i] = make([]float64, n+1)
		copy(a[i][1:], cost[i-1])
	}

	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for k := range minv {
			minv[k] = hungarianInf
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := hungarianInf
			j1 := -1
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := a[i0][j] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	result := make([]int, n)
	for j := 1; j <= n; j++ {
		if p[j] != 0 {
			result[p[j]-1] = j - 1
		}
	}
	return result
}
