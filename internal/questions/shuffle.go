package questions

import "math/rand/v2"

// Shuffle returns a uniformly shuffled copy of list. The input is not
// modified.
func Shuffle[T any](r *rand.Rand, list []T) []T {
	out := make([]T, len(list))
	copy(out, list)
	// rand.Shuffle walks from the last index down, swapping with a
	// uniformly chosen index <= i (Fisher-Yates).
	r.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// PrepareForSession shuffles the options of q and remaps the answer to the
// new position of the originally correct option. The mapping follows the
// option's original index, so duplicate option texts cannot lose the
// answer.
func PrepareForSession(r *rand.Rand, q Question) SessionQuestion {
	order := make([]int, len(q.Options))
	for i := range order {
		order[i] = i
	}
	order = Shuffle(r, order)

	options := make([]string, len(order))
	answer := 0
	for pos, orig := range order {
		options[pos] = q.Options[orig]
		if orig == q.Answer {
			answer = pos
		}
	}

	prepared := q
	prepared.Options = options
	prepared.Answer = answer
	return SessionQuestion{Question: prepared, OriginalAnswer: q.Answer}
}
