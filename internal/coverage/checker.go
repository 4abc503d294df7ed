package coverage

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

// Area is the result of a postcode lookup
type Area struct {
	Postcode  string `json:"postcode"`
	District  string `json:"district"`
	Served    bool   `json:"served"`
	OuterArea bool   `json:"outerArea"`
}

// Stats summarises the loaded district lists
type Stats struct {
	Sources        int `json:"sources"`
	CoreDistricts  int `json:"coreDistricts"`
	OuterDistricts int `json:"outerDistricts"`
}

// Checker answers whether a postcode falls inside the service area.
// Core districts are served at standard prices; outer districts are served
// with the outer-area call-out charge.
type Checker struct {
	mu         sync.RWMutex
	core       map[string]bool
	outer      map[string]bool
	sources    int
	httpClient *http.Client
}

// sourceLoadResult holds the result of loading a single list
type sourceLoadResult struct {
	index     int
	districts map[string]bool
	err       error
}

func NewChecker() *Checker {
	return &Checker{
		core:       make(map[string]bool),
		outer:      make(map[string]bool),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Load reads the core and outer district lists concurrently. Each source is
// a local path or an http(s) URL; sources ending in .gz are gunzipped.
// The checker keeps its previous lists if any source fails.
func (c *Checker) Load(ctx context.Context, coreSources, outerSources []string) error {
	sources := append(append([]string{}, coreSources...), outerSources...)
	if len(sources) == 0 {
		return fmt.Errorf("no coverage sources provided")
	}

	resultChan := make(chan sourceLoadResult, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(index int, source string) {
			defer wg.Done()

			districts, err := c.loadSource(ctx, source)
			resultChan <- sourceLoadResult{
				index:     index,
				districts: districts,
				err:       err,
			}
		}(i, src)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]sourceLoadResult, len(sources))
	for result := range resultChan {
		results[result.index] = result
	}

	core := make(map[string]bool)
	outer := make(map[string]bool)
	for i, result := range results {
		if result.err != nil {
			return fmt.Errorf("failed to load %s: %w", sources[i], result.err)
		}
		target := core
		if i >= len(coreSources) {
			target = outer
		}
		for d := range result.districts {
			target[d] = true
		}
	}

	// a district listed as core is never treated as outer
	for d := range core {
		delete(outer, d)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.core = core
	c.outer = outer
	c.sources = len(sources)

	return nil
}

func (c *Checker) loadSource(ctx context.Context, source string) (map[string]bool, error) {
	var r io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		body, err := c.download(ctx, source)
		if err != nil {
			return nil, err
		}
		r = body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		r = f
	}
	defer r.Close()

	if strings.HasSuffix(source, ".gz") {
		gzReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		return parseDistricts(gzReader)
	}

	return parseDistricts(r)
}

func (c *Checker) download(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// parseDistricts reads one district per line. Blank lines and # comments
// are skipped.
func parseDistricts(r io.Reader) (map[string]bool, error) {
	districts := make(map[string]bool)
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.ToUpper(strings.TrimSpace(line))
		if line != "" {
			districts[line] = true
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return districts, nil
}

// Lookup classifies a postcode. Entries in the lists may be full districts
// ("M14") or whole postcode areas ("SK").
func (c *Checker) Lookup(postcode string) Area {
	normalized := Normalize(postcode)
	district := District(normalized)
	area := Area{Postcode: normalized, District: district}
	if district == "" {
		return area
	}

	prefix := areaPrefix(district)

	c.mu.RLock()
	defer c.mu.RUnlock()

	switch {
	case c.core[district]:
		area.Served = true
	case c.outer[district]:
		area.Served = true
		area.OuterArea = true
	case c.core[prefix]:
		area.Served = true
	case c.outer[prefix]:
		area.Served = true
		area.OuterArea = true
	}

	return area
}

// IsOuterArea reports whether the postcode attracts the outer-area call-out
func (c *Checker) IsOuterArea(postcode string) bool {
	return c.Lookup(postcode).OuterArea
}

// GetStats returns statistics about the loaded lists
func (c *Checker) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		Sources:        c.sources,
		CoreDistricts:  len(c.core),
		OuterDistricts: len(c.outer),
	}
}

// Normalize upper-cases a postcode and puts a single space before the
// inward code when one is present.
func Normalize(postcode string) string {
	compact := strings.ToUpper(strings.Join(strings.Fields(postcode), ""))
	if len(compact) >= 5 && hasInwardCode(compact) {
		return compact[:len(compact)-3] + " " + compact[len(compact)-3:]
	}
	return compact
}

// District returns the outward code of a normalized postcode
func District(normalized string) string {
	if i := strings.IndexByte(normalized, ' '); i >= 0 {
		return normalized[:i]
	}
	return normalized
}

// hasInwardCode reports whether the last three characters look like
// digit-letter-letter
func hasInwardCode(compact string) bool {
	inward := compact[len(compact)-3:]
	return inward[0] >= '0' && inward[0] <= '9' && isLetter(inward[1]) && isLetter(inward[2])
}

func areaPrefix(district string) string {
	end := 0
	for end < len(district) && isLetter(district[end]) {
		end++
	}
	return district[:end]
}

func isLetter(b byte) bool {
	return b >= 'A' && b <= 'Z'
}
