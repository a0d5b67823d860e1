/*package format handles the small expression language used to select events
by number, e.g:

	--select "0..99 - 13"
	--select "0..9 + 100..109 - 4..5"

A sequence format is a series of tokens separated by "+" or "-". Each token is
either a single natural number or two numbers separated by "..", which stands
for every number between them, inclusive. A leading "+" may be dropped. Tokens
after a "+" are added to the selection and tokens after a "-" are removed from
it, so 1, 2, 3, 15, 16, 17 can be written as 1..17 - 4..14.

Adding a number twice or removing a number that was never added is an error;
both are almost always typos. All spaces around "+" and "-" are ignored.
*/
package format

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// Any expanded formats which would have more than BigNumber elements are
	// assumed to be bugs.
	BigNumber = 1 << 20
)

// Selection is an expanded sequence format. The zero value selects nothing.
type Selection struct {
	format string
	set    map[int]struct{}
	sorted []int
}

// ParseSelection expands a sequence format into a Selection.
func ParseSelection(format string) (*Selection, error) {
	n, err := ExpandSequenceFormat(format)
	if err != nil {
		return nil, fmt.Errorf("invalid selection '%s': %w", format, err)
	}
	s := &Selection{format: format, set: make(map[int]struct{}, len(n)),
		sorted: n}
	for _, x := range n {
		s.set[x] = struct{}{}
	}
	return s, nil
}

// Contains reports whether event number n is selected. A nil Selection
// selects every event.
func (s *Selection) Contains(n int) bool {
	if s == nil {
		return true
	}
	_, ok := s.set[n]
	return ok
}

// Numbers returns the selected event numbers in ascending order.
func (s *Selection) Numbers() []int {
	if s == nil {
		return nil
	}
	return append([]int(nil), s.sorted...)
}

func (s *Selection) String() string {
	if s == nil {
		return "all"
	}
	return s.format
}

// ExpandSequenceFormat expands a sequence format string into a sorted sequence
// of integers.
func ExpandSequenceFormat(format string) ([]int, error) {
	tok, err := tokeniseSequenceFormat(format)
	if err != nil {
		return nil, err
	}
	adds, subs, err := addsSubsSequenceFormat(tok)
	if err != nil {
		return nil, err
	}

	// Count first so a typo like 0..1000000000 fails before allocating.
	total := 0
	for _, a := range adds {
		total += tokenLen(a)
		if total > BigNumber {
			return nil, fmt.Errorf("this sequence would have more than %d elements, which is almost certainly a bug", BigNumber)
		}
	}

	m := make(map[int]struct{}, total)
	for _, a := range adds {
		for _, n := range parseSequenceFormatToken(a) {
			if _, ok := m[n]; ok {
				return nil, fmt.Errorf("the number %d is added more than once", n)
			}
			m[n] = struct{}{}
		}
	}

	for _, s := range subs {
		for _, n := range parseSequenceFormatToken(s) {
			if _, ok := m[n]; !ok {
				return nil, fmt.Errorf("the number %d is removed more times than it was added", n)
			}
			delete(m, n)
		}
	}

	out := make([]int, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	sort.Ints(out)

	return out, nil
}

// tokeniseSequenceFormat splits a sequence format into number tokens and
// operators.
func tokeniseSequenceFormat(format string) ([]string, error) {
	clean := strings.ReplaceAll(format, "+", " + ")
	clean = strings.ReplaceAll(clean, "-", " - ")

	tok := strings.Fields(clean)
	if len(tok) == 0 {
		return nil, fmt.Errorf("the format string is empty")
	}
	return tok, nil
}

func addsSubsSequenceFormat(tok []string) (adds, subs []string, err error) {
	if len(tok) == 0 {
		return nil, nil, fmt.Errorf("the format string is empty")
	}

	// Handle the case where the starting "+" is dropped.
	adds, subs = []string{}, []string{}
	start := 0
	if tok[0] != "+" && tok[0] != "-" {
		if err := isSequenceFormatToken(tok[0]); err != nil {
			return nil, nil, fmt.Errorf(
				"element number 1, '%s', cannot be parsed because %s",
				tok[0], err.Error())
		}
		adds = append(adds, tok[0])
		start = 1
	}

	for i := start; i < len(tok); i += 2 {
		if tok[i] != "-" && tok[i] != "+" {
			return nil, nil, fmt.Errorf(
				"element number %d, '%s', should be a '-' or '+', but isn't",
				i+1, tok[i])
		}
		if i+1 >= len(tok) {
			return nil, nil, fmt.Errorf(
				"the format string ends in a trailing '%s'", tok[i])
		}
		if err := isSequenceFormatToken(tok[i+1]); err != nil {
			return nil, nil, fmt.Errorf(
				"element number %d, '%s', cannot be parsed because %s",
				i+2, tok[i+1], err.Error())
		}

		if tok[i] == "+" {
			adds = append(adds, tok[i+1])
		} else {
			subs = append(subs, tok[i+1])
		}
	}

	return adds, subs, nil
}

// isSequenceFormatToken returns a nil error if tok is a valid token for
// a sequence format and an error describing the problem otherwise. The error
// message is meant to follow the word "because".
func isSequenceFormatToken(tok string) error {
	if len(tok) == 0 {
		return fmt.Errorf("the token is empty")
	}

	bounds := strings.Split(tok, "..")
	switch len(bounds) {
	case 1:
		if _, err := strconv.Atoi(bounds[0]); err != nil {
			return fmt.Errorf("'%s' is not an integer", bounds[0])
		}
		return nil
	case 2:
		start, err := strconv.Atoi(bounds[0])
		if err != nil {
			return fmt.Errorf("'%s' is not an integer", bounds[0])
		}
		end, err := strconv.Atoi(bounds[1])
		if err != nil {
			return fmt.Errorf("'%s' is not an integer", bounds[1])
		}
		if end < start {
			return fmt.Errorf("lower bound %d is larger than upper bound %d",
				start, end)
		}
		return nil
	}
	return fmt.Errorf("it has more than one '..'")
}

// tokenLen is the number of values a checked token expands to.
func tokenLen(tok string) int {
	bounds := strings.Split(tok, "..")
	if len(bounds) == 1 {
		return 1
	}
	start, _ := strconv.Atoi(bounds[0])
	end, _ := strconv.Atoi(bounds[1])
	return end - start + 1
}

// parseSequenceFormatToken expands a single token that has already passed
// isSequenceFormatToken.
func parseSequenceFormatToken(tok string) []int {
	bounds := strings.Split(tok, "..")
	if len(bounds) == 1 {
		n, _ := strconv.Atoi(tok)
		return []int{n}
	}

	start, _ := strconv.Atoi(bounds[0])
	end, _ := strconv.Atoi(bounds[1])
	out := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		out = append(out, n)
	}
	return out
}
