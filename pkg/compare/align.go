package compare

import (
	"github.com/ccollicutt/nbodydiff/pkg/parser"
)

// pair is one left row and the right row it is compared against.
type pair struct {
	left  *parser.Row
	right *parser.Row
}

// alignByIndex pairs rows by position. Callers guarantee equal lengths.
func alignByIndex(left, right *parser.Dataset) []pair {
	pairs := make([]pair, len(left.Rows))
	for i := range left.Rows {
		pairs[i] = pair{left: &left.Rows[i], right: &right.Rows[i]}
	}
	return pairs
}

// alignByKey pairs rows sharing (body id, timestep), keeping left order.
// With equal lengths, no duplicates and every left key present on the
// right, the pairing is one-to-one.
func alignByKey(left, right *parser.Dataset) ([]pair, error) {
	index, err := indexRows(right)
	if err != nil {
		return nil, err
	}

	seen := make(map[parser.RowKey]int, len(left.Rows))
	pairs := make([]pair, 0, len(left.Rows))
	for i := range left.Rows {
		row := &left.Rows[i]
		key := row.Key()

		if first, dup := seen[key]; dup {
			return nil, &KeyMismatchError{
				Key:       key,
				Source:    left.Source,
				LineNum:   row.LineNum,
				Other:     left.Source,
				Duplicate: true,
				FirstLine: first,
			}
		}
		seen[key] = row.LineNum

		match, ok := index[key]
		if !ok {
			return nil, &KeyMismatchError{
				Key:     key,
				Source:  left.Source,
				LineNum: row.LineNum,
				Other:   right.Source,
			}
		}
		pairs = append(pairs, pair{left: row, right: match})
	}
	return pairs, nil
}

func indexRows(ds *parser.Dataset) (map[parser.RowKey]*parser.Row, error) {
	index := make(map[parser.RowKey]*parser.Row, len(ds.Rows))
	for i := range ds.Rows {
		row := &ds.Rows[i]
		key := row.Key()
		if first, dup := index[key]; dup {
			return nil, &KeyMismatchError{
				Key:       key,
				Source:    ds.Source,
				LineNum:   row.LineNum,
				Other:     ds.Source,
				Duplicate: true,
				FirstLine: first.LineNum,
			}
		}
		index[key] = row
	}
	return index, nil
}
