package extract

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/zip"
)

// maxBundleEntry caps a single decompressed sample file.
const maxBundleEntry = 16 << 20

// SampleBundle reads the judge's samples.zip. Files pair up by name:
// "1.in" with "1.ans", ordered numerically where the names are numbers.
func SampleBundle(data []byte) ([]Sample, error) {
	if mt := mimetype.Detect(data); !mt.Is("application/zip") {
		return nil, fmt.Errorf("%w, sample bundle is %s, not a zip", kgerrors.ErrParse, mt.String())
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w, %v", kgerrors.ErrParse, err)
	}

	inputs := make(map[string]string)
	answers := make(map[string]string)
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := path.Base(f.Name)
		ext := path.Ext(name)
		stem := strings.TrimSuffix(name, ext)

		var dst map[string]string
		switch ext {
		case ".in":
			dst = inputs
		case ".ans", ".out":
			dst = answers
		default:
			continue
		}

		content, err := readEntry(f)
		if err != nil {
			return nil, err
		}
		dst[stem] = content
	}

	var stems []string
	for stem := range inputs {
		if _, ok := answers[stem]; ok {
			stems = append(stems, stem)
		}
	}
	sort.Slice(stems, func(i, j int) bool {
		a, aErr := strconv.Atoi(stems[i])
		b, bErr := strconv.Atoi(stems[j])
		if aErr == nil && bErr == nil {
			return a < b
		}
		return stems[i] < stems[j]
	})

	samples := make([]Sample, 0, len(stems))
	for _, stem := range stems {
		samples = append(samples, Sample{Input: inputs[stem], Output: answers[stem]})
	}
	return samples, nil
}

func readEntry(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("%w, %s: %v", kgerrors.ErrParse, f.Name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, maxBundleEntry+1))
	if err != nil {
		return "", fmt.Errorf("%w, %s: %v", kgerrors.ErrParse, f.Name, err)
	}
	if len(content) > maxBundleEntry {
		return "", fmt.Errorf("%w, %s is too large", kgerrors.ErrParse, f.Name)
	}
	return string(content), nil
}
