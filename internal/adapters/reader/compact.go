package reader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"ttp-solver-service/internal/adapters/distance"
	"ttp-solver-service/internal/domain"
)

// DecodeCompact parses the compact whitespace-separated format:
//
//	n
//	d(0,1) d(0,2) ... d(n-2,n-1)      strict upper triangle, row-major
//	m
//	weight profit city                m rows, city is 0-based
//	capacity max_speed min_speed renting_ratio
func DecodeCompact(r io.Reader, defaultName string) (*domain.Instance, error) {
	tok := newTokenizer(r)

	n, err := tok.int("dimension")
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("decode compact: %w: negative dimension %d", ErrMalformed, n)
	}
	if n > MaxDimension {
		return nil, fmt.Errorf("decode compact: %w: dimension %d exceeds %d", ErrMalformed, n, MaxDimension)
	}

	// grown as values arrive so a short file never allocates the full triangle
	var upper []float64
	for i := 0; i < n*(n-1)/2; i++ {
		d, err := tok.float("distance")
		if err != nil {
			return nil, err
		}
		upper = append(upper, d)
	}
	dist, err := distance.FromUpperTriangle(n, upper)
	if err != nil {
		return nil, fmt.Errorf("decode compact: %w", err)
	}

	m, err := tok.int("item count")
	if err != nil {
		return nil, err
	}
	if m < 0 {
		return nil, fmt.Errorf("decode compact: %w: negative item count %d", ErrMalformed, m)
	}
	if m > MaxItems {
		return nil, fmt.Errorf("decode compact: %w: item count %d exceeds %d", ErrMalformed, m, MaxItems)
	}

	var items []domain.Item
	for k := 0; k < m; k++ {
		w, err := tok.int("item weight")
		if err != nil {
			return nil, err
		}
		b, err := tok.int("item profit")
		if err != nil {
			return nil, err
		}
		c, err := tok.int("item city")
		if err != nil {
			return nil, err
		}
		items = append(items, domain.Item{Weight: w, Profit: b, City: c})
	}

	p := domain.InstanceParams{Name: defaultName, Distances: dist, Items: items}
	if p.Capacity, err = tok.int("capacity"); err != nil {
		return nil, err
	}
	if p.MaxSpeed, err = tok.float("max speed"); err != nil {
		return nil, err
	}
	if p.MinSpeed, err = tok.float("min speed"); err != nil {
		return nil, err
	}
	if p.RentingRatio, err = tok.float("renting ratio"); err != nil {
		return nil, err
	}

	inst, err := domain.NewInstance(p)
	if err != nil {
		return nil, fmt.Errorf("decode compact: %w", err)
	}
	return inst, nil
}

type tokenizer struct {
	sc    *bufio.Scanner
	count int
}

func newTokenizer(r io.Reader) *tokenizer {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &tokenizer{sc: sc}
}

func (t *tokenizer) next(what string) (string, error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return "", fmt.Errorf("decode compact: scan: %w", err)
		}
		return "", fmt.Errorf("decode compact: %w: unexpected end of input reading %s", ErrMalformed, what)
	}
	t.count++
	return t.sc.Text(), nil
}

func (t *tokenizer) int(what string) (int, error) {
	s, err := t.next(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("decode compact: token %d: %w: %s %q is not an integer", t.count, ErrMalformed, what, s)
	}
	return v, nil
}

func (t *tokenizer) float(what string) (float64, error) {
	s, err := t.next(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("decode compact: token %d: %w: %s %q is not a number", t.count, ErrMalformed, what, s)
	}
	return v, nil
}
