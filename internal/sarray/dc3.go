// Package sarray builds a suffix array over a rune sequence using the
// Kärkkäinen–Sanders (DC3/skew) linear-time algorithm, and supports binary
// search for all suffixes beginning with a given pattern. Grounded on
// spec.md §4.8; the teacher repo has no suffix array of its own, so this
// package follows the classic skew() formulation from Kärkkäinen, Sanders &
// Burkhardt's reference algorithm (recursive radix-sort over sample
// positions, merge of sample/non-sample ranks) rather than any specific
// example file.
package sarray

import "sort"

// SuffixArray holds a rune text's suffix array.
type SuffixArray struct {
	text []int32
	sa   []int32
}

// Build constructs a suffix array over text.
func Build(text []rune) *SuffixArray {
	n := len(text)
	if n == 0 {
		return &SuffixArray{text: nil, sa: nil}
	}
	s := make([]int32, n+3)
	var maxVal int32
	for i, r := range text {
		v := int32(r) + 1 // shift so 0 is free to use as a sentinel
		s[i] = v
		if v > maxVal {
			maxVal = v
		}
	}
	sa := make([]int32, n)
	suffixArray(s, sa, n, maxVal)
	return &SuffixArray{text: s[:n], sa: sa}
}

// Len returns the number of suffixes.
func (s *SuffixArray) Len() int { return len(s.sa) }

// At returns the starting offset of the i'th suffix in sorted order.
func (s *SuffixArray) At(i int) int { return int(s.sa[i]) }

// FindRange returns [lo, hi) such that the suffixes at sa[lo:hi] all start
// with pattern.
func (s *SuffixArray) FindRange(pattern []rune) (lo, hi int) {
	n := len(s.sa)
	lo = sort.Search(n, func(i int) bool {
		return compareSuffixPrefix(s.text, int(s.sa[i]), pattern) >= 0
	})
	hi = sort.Search(n, func(i int) bool {
		return compareSuffixPrefix(s.text, int(s.sa[i]), pattern) > 0
	})
	return lo, hi
}

func compareSuffixPrefix(text []int32, start int, pattern []rune) int {
	for i, r := range pattern {
		pos := start + i
		if pos >= len(text) {
			return -1
		}
		tv := text[pos]
		pv := int32(r) + 1
		if tv != pv {
			if tv < pv {
				return -1
			}
			return 1
		}
	}
	return 0
}

// radixPass stable-sorts indices a (length n) by key[a[i]] into b, keys in
// [0, K].
func radixPass(a, b []int32, key []int32, n int, K int32) {
	c := make([]int32, K+2)
	for i := 0; i < n; i++ {
		c[key[a[i]]+1]++
	}
	for i := int32(1); i <= K+1; i++ {
		c[i] += c[i-1]
	}
	for i := 0; i < n; i++ {
		k := key[a[i]]
		b[c[k]] = a[i]
		c[k]++
	}
}

func leq2(a1, a2, b1, b2 int32) bool { return a1 < b1 || (a1 == b1 && a2 <= b2) }
func leq3(a1, a2, a3, b1, b2, b3 int32) bool {
	return a1 < b1 || (a1 == b1 && leq2(a2, a3, b2, b3))
}

// suffixArray fills SA[0:n] with the suffix array of s[0:n]; s must have at
// least 3 trailing zero-valued sentinel slots beyond n. Values in s are in
// [0, K].
func suffixArray(s []int32, SA []int32, n int, K int32) {
	if n == 0 {
		return
	}
	if n == 1 {
		SA[0] = 0
		return
	}
	n0, n1, n2 := (n+2)/3, (n+1)/3, n/3
	n02 := n0 + n2

	s12 := make([]int32, n02+3)
	SA12 := make([]int32, n02+3)
	s0 := make([]int32, n0)
	SA0 := make([]int32, n0)

	j := 0
	for i := 0; i < n+(n0-n1); i++ {
		if i%3 != 0 {
			s12[j] = int32(i)
			j++
		}
	}

	tmp12 := make([]int32, n02+3)
	radixPass(s12[:n02], tmp12[:n02], shift(s, 2), n02, K)
	radixPass(tmp12[:n02], SA12[:n02], shift(s, 1), n02, K)
	radixPass(SA12[:n02], tmp12[:n02], shift(s, 0), n02, K)
	copy(SA12, tmp12)

	name := int32(0)
	c0, c1, c2 := int32(-1), int32(-1), int32(-1)
	for i := 0; i < n02; i++ {
		p := SA12[i]
		if getAt(s, p) != c0 || getAt(s, p+1) != c1 || getAt(s, p+2) != c2 {
			name++
			c0, c1, c2 = getAt(s, p), getAt(s, p+1), getAt(s, p+2)
		}
		if p%3 == 1 {
			s12[p/3] = name
		} else {
			s12[p/3+int32(n0)] = name
		}
	}

	if name < int32(n02) {
		suffixArray(s12, SA12, n02, name)
		for i := 0; i < n02; i++ {
			s12[SA12[i]] = int32(i + 1)
		}
	} else {
		for i := 0; i < n02; i++ {
			SA12[s12[i]-1] = int32(i)
		}
	}

	j = 0
	for i := 0; i < n02; i++ {
		if SA12[i] < int32(n0) {
			s0[j] = 3 * SA12[i]
			j++
		}
	}
	radixPass(s0, SA0, shift(s, 0), n0, K)

	getI := func(t int) int32 {
		if SA12[t] < int32(n0) {
			return SA12[t]*3 + 1
		}
		return (SA12[t]-int32(n0))*3 + 2
	}

	p, t, k := 0, n0-n1, 0
	for k < n {
		i := getI(t)
		jj := SA0[p]
		var take bool
		if SA12[t] < int32(n0) {
			take = leq2(getAt(s, i), s12[SA12[t]+int32(n0)], getAt(s, jj), s12[jj/3])
		} else {
			take = leq3(getAt(s, i), getAt(s, i+1), s12[SA12[t]-int32(n0)+1],
				getAt(s, jj), getAt(s, jj+1), s12[jj/3+int32(n0)])
		}
		if take {
			SA[k] = i
			t++
			k++
			if t == n02 {
				for ; p < n0; p, k = p+1, k+1 {
					SA[k] = SA0[p]
				}
			}
		} else {
			SA[k] = jj
			p++
			k++
			if p == n0 {
				for ; t < n02; t, k = t+1, k+1 {
					SA[k] = getI(t)
				}
			}
		}
	}
}

func getAt(s []int32, i int32) int32 {
	if i < 0 || int(i) >= len(s) {
		return 0
	}
	return s[i]
}

// shift returns a key slice such that key[i] == getAt(s, i+offset), used so
// radixPass can index by raw position.
func shift(s []int32, offset int) []int32 {
	out := make([]int32, len(s))
	for i := range s {
		out[i] = getAt(s, int32(i+offset))
	}
	return out
}
