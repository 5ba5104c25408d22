package ngramsearch

import "unicode"

// Gram is a single fixed-size unit making up an n-gram: either a raw byte
// or a Unicode scalar value. The gram type is fixed per corpus and chosen
// at construction time as the type parameter of NewCorpusBuilder.
type Gram interface {
	byte | rune
}

// Adaptor transforms a key's unit sequence before n-gram extraction. The
// same Adaptor value must be applied identically to keys at build time and
// to the query at search time; Corpus enforces this by storing a single
// composed Adaptor and reusing it for both.
type Adaptor[G Gram] func([]G) []G

// composeAdaptors chains adaptors left to right into a single Adaptor.
func composeAdaptors[G Gram](adaptors []Adaptor[G]) Adaptor[G] {
	return func(units []G) []G {
		for _, a := range adaptors {
			units = a(units)
		}
		return units
	}
}

func isSpaceLike[G Gram](g G) bool {
	return rune(g) == ' ' || rune(g) == '\t' || rune(g) == '\n' || rune(g) == '\r'
}

func isNull[G Gram](g G) bool {
	return g == 0
}

func isAlnum[G Gram](g G) bool {
	r := rune(g)
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// TrimLeft drops leading space-like units.
func TrimLeft[G Gram]() Adaptor[G] {
	return func(u []G) []G {
		i := 0
		for i < len(u) && isSpaceLike(u[i]) {
			i++
		}
		return u[i:]
	}
}

// TrimRight drops trailing space-like units.
func TrimRight[G Gram]() Adaptor[G] {
	return func(u []G) []G {
		j := len(u)
		for j > 0 && isSpaceLike(u[j-1]) {
			j--
		}
		return u[:j]
	}
}

// Trim drops leading and trailing space-like units.
func Trim[G Gram]() Adaptor[G] {
	left := TrimLeft[G]()
	right := TrimRight[G]()
	return func(u []G) []G { return right(left(u)) }
}

// TrimNullLeft drops leading NUL units.
func TrimNullLeft[G Gram]() Adaptor[G] {
	return func(u []G) []G {
		i := 0
		for i < len(u) && isNull(u[i]) {
			i++
		}
		return u[i:]
	}
}

// TrimNullRight drops trailing NUL units.
func TrimNullRight[G Gram]() Adaptor[G] {
	return func(u []G) []G {
		j := len(u)
		for j > 0 && isNull(u[j-1]) {
			j--
		}
		return u[:j]
	}
}

// TrimNull drops leading and trailing NUL units.
func TrimNull[G Gram]() Adaptor[G] {
	left := TrimNullLeft[G]()
	right := TrimNullRight[G]()
	return func(u []G) []G { return right(left(u)) }
}

// Lower ASCII/Unicode lower-cases each unit.
func Lower[G Gram]() Adaptor[G] {
	return func(u []G) []G {
		out := make([]G, len(u))
		for i, g := range u {
			out[i] = G(unicode.ToLower(rune(g)))
		}
		return out
	}
}

// Alphanumeric replaces non-alphanumeric units with SPACE.
func Alphanumeric[G Gram]() Adaptor[G] {
	return func(u []G) []G {
		out := make([]G, len(u))
		for i, g := range u {
			if isAlnum(g) {
				out[i] = g
			} else {
				out[i] = G(' ')
			}
		}
		return out
	}
}

// DedupSpaces collapses runs of space-like units into a single unit.
func DedupSpaces[G Gram]() Adaptor[G] {
	return func(u []G) []G {
		out := make([]G, 0, len(u))
		prevSpace := false
		for _, g := range u {
			sp := isSpaceLike(g)
			if sp && prevSpace {
				continue
			}
			out = append(out, g)
			prevSpace = sp
		}
		return out
	}
}

// ASCII filters out non-ASCII scalars. Only meaningful when G=byte, per the
// normalization adaptor contract; applying it to rune-gram corpora simply
// drops code points above 127.
func ASCII[G Gram]() Adaptor[G] {
	return func(u []G) []G {
		out := make([]G, 0, len(u))
		for _, g := range u {
			if rune(g) <= 127 {
				out = append(out, g)
			}
		}
		return out
	}
}

// padUnits pads a unit sequence shorter than arity with trailing zero-value
// (PADDING) units, so it still forms exactly one ngram instead of none.
// Sequences already at or past arity length are returned unchanged.
func padUnits[G Gram](units []G, arity int) []G {
	if len(units) >= arity {
		return units
	}
	out := make([]G, arity)
	copy(out, units)
	return out
}

// unitsFromString converts a key/query string into the corpus's gram unit
// sequence: raw bytes for G=byte, Unicode scalars for G=rune.
func unitsFromString[G Gram](s string) []G {
	var zero G
	switch any(zero).(type) {
	case byte:
		b := []byte(s)
		out := make([]G, len(b))
		for i, c := range b {
			out[i] = G(c)
		}
		return out
	default:
		r := []rune(s)
		out := make([]G, len(r))
		for i, c := range r {
			out[i] = G(c)
		}
		return out
	}
}
