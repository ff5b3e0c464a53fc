// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tbdd

import "math/big"

// primeGte and its helpers size the node table and operation caches to a
// prime capacity, reducing collision clustering in the modulo-hashed tables.
// Adapted from rudd's primes.go.

func hasFactor(src, n int) bool {
	return src != n && src%n == 0
}

func hasEasyFactors(src int) bool {
	return hasFactor(src, 3) || hasFactor(src, 5) || hasFactor(src, 7) || hasFactor(src, 11) || hasFactor(src, 13)
}

func primeGte(src int) int {
	if src%2 == 0 {
		src++
	}
	for {
		if hasEasyFactors(src) {
			src += 2
			continue
		}
		if big.NewInt(int64(src)).ProbablyPrime(0) {
			return src
		}
		src += 2
	}
}
