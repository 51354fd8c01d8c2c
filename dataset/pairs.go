// Package dataset parses the pair manifests consumed by verification
// benchmarks. Image loading itself is out of scope; the manifest only names
// image references and same/different labels.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/arcgo/pkg/errors"
)

// Pair references two images and whether they show the same identity.
type Pair struct {
	Left  string
	Right string
	Same  bool
}

// PairSet is a parsed pair manifest.
type PairSet struct {
	Pairs []Pair

	// FoldCount is the fold count declared in the manifest header, or 0
	// when the manifest has no header.
	FoldCount int
}

// Labels returns the same-identity labels in pair order.
func (ps *PairSet) Labels() []bool {
	labels := make([]bool, len(ps.Pairs))
	for i, p := range ps.Pairs {
		labels[i] = p.Same
	}
	return labels
}

// ReadPairsFile opens and parses an LFW-style pairs manifest.
func ReadPairsFile(path string) (*PairSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: open pairs file %s", path)
	}
	defer f.Close()

	ps, err := ReadPairs(f)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: parse pairs file %s", path)
	}
	return ps, nil
}

// ReadPairs parses an LFW-style pairs manifest:
//
//	10 300                    optional header: fold count, pairs per fold
//	Name 1 3                  3 fields: same identity, two image indices
//	NameA 2 NameB 5           4 fields: two identities, one index each
//
// Image references are rendered as "Name/Name_0001"-style strings. Blank
// lines are skipped; anything else malformed fails with its line number.
func ReadPairs(r io.Reader) (*PairSet, error) {
	ps := &PairSet{}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		switch len(fields) {
		case 2:
			// Header line, only valid before any pair.
			if len(ps.Pairs) > 0 {
				return nil, errors.NewValueError("ReadPairs",
					fmt.Sprintf("line %d: header after pair lines", lineNo))
			}
			folds, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, errors.NewValueError("ReadPairs",
					fmt.Sprintf("line %d: bad fold count %q", lineNo, fields[0]))
			}
			ps.FoldCount = folds

		case 3:
			left, err := imageRef(fields[0], fields[1])
			if err != nil {
				return nil, errors.NewValueError("ReadPairs",
					fmt.Sprintf("line %d: %v", lineNo, err))
			}
			right, err := imageRef(fields[0], fields[2])
			if err != nil {
				return nil, errors.NewValueError("ReadPairs",
					fmt.Sprintf("line %d: %v", lineNo, err))
			}
			ps.Pairs = append(ps.Pairs, Pair{Left: left, Right: right, Same: true})

		case 4:
			left, err := imageRef(fields[0], fields[1])
			if err != nil {
				return nil, errors.NewValueError("ReadPairs",
					fmt.Sprintf("line %d: %v", lineNo, err))
			}
			right, err := imageRef(fields[2], fields[3])
			if err != nil {
				return nil, errors.NewValueError("ReadPairs",
					fmt.Sprintf("line %d: %v", lineNo, err))
			}
			ps.Pairs = append(ps.Pairs, Pair{Left: left, Right: right, Same: false})

		default:
			return nil, errors.NewValueError("ReadPairs",
				fmt.Sprintf("line %d: expected 2, 3 or 4 fields, got %d", lineNo, len(fields)))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "ReadPairs: scan")
	}

	if len(ps.Pairs) == 0 {
		return nil, errors.NewModelError("ReadPairs", "empty manifest", errors.ErrEmptyData)
	}

	return ps, nil
}

// imageRef renders "Name/Name_0001" from an identity name and image index.
func imageRef(name, index string) (string, error) {
	idx, err := strconv.Atoi(index)
	if err != nil {
		return "", fmt.Errorf("bad image index %q", index)
	}
	return fmt.Sprintf("%s/%s_%04d", name, name, idx), nil
}
