package compute

import (
	"errors"
	"fmt"
)

// MaxPrimeCount bounds PrimeSum so a single request cannot pin a CPU.
const MaxPrimeCount = 100_000

// ErrTooManyPrimes is returned when PrimeSum is asked for more than MaxPrimeCount primes.
var ErrTooManyPrimes = errors.New("too many primes requested")

// IsPrime reports whether n is prime using trial division by odd numbers.
func IsPrime(n int) bool {
	if n <= 1 {
		return false
	}
	if n == 2 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	for i := 3; i*i <= n; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// PrimeSum returns the sum of the first count primes. A count of zero or less sums nothing.
func PrimeSum(count int) (int64, error) {
	if count > MaxPrimeCount {
		return 0, fmt.Errorf("%d: %w (max %d)", count, ErrTooManyPrimes, MaxPrimeCount)
	}
	var total int64
	for found, n := 0, 2; found < count; n++ {
		if IsPrime(n) {
			total += int64(n)
			found++
		}
	}
	return total, nil
}
