// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

// fornberg computes finite-difference weights for all derivative orders
// 0..maxOrder at evaluation point z using the nodes in x, following the
// recursive algorithm of Fornberg (1988), "Generation of Finite Difference
// Formulas on Arbitrarily Spaced Grids". The result c[k][j] is the weight
// applied to the value at x[j] when approximating the k-th derivative at z.
func fornberg(x []float64, z float64, maxOrder int) [][]float64 {
	n := len(x)
	c := make([][]float64, maxOrder+1)
	for k := range c {
		c[k] = make([]float64, n)
	}
	c1 := 1.0
	c4 := x[0] - z
	c[0][0] = 1.0
	for i := 1; i < n; i++ {
		mn := i
		if maxOrder < mn {
			mn = maxOrder
		}
		c2 := 1.0
		c5 := c4
		c4 = x[i] - z
		for j := 0; j < i; j++ {
			c3 := x[i] - x[j]
			c2 *= c3
			if j == i-1 {
				for k := mn; k >= 1; k-- {
					c[k][i] = c1 * (float64(k)*c[k-1][i-1] - c5*c[k][i-1]) / c2
				}
				c[0][i] = -c1 * c5 * c[0][i-1] / c2
			}
			for k := mn; k >= 1; k-- {
				c[k][j] = (c4*c[k][j] - float64(k)*c[k-1][j]) / c3
			}
			c[0][j] = c4 * c[0][j] / c3
		}
		c1 = c2
	}
	return c
}
