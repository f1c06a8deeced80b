package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/ulancrm/internal/crm"
)

// Describer maps one ULAN identifier to an entity graph
type Describer interface {
	Describe(ctx context.Context, id string) (*crm.Entity, error)
}

// DescribeJob describes a single identifier
type DescribeJob struct {
	Index     int
	ID        string
	Describer Describer
}

// Execute runs the job
func (j *DescribeJob) Execute(ctx context.Context) Result {
	entity, err := j.Describer.Describe(ctx, j.ID)
	return &DescribeResult{
		Index:  j.Index,
		ID:     j.ID,
		Entity: entity,
		Error:  err,
	}
}

// DescribeResult is the outcome of a describe job
type DescribeResult struct {
	Index  int
	ID     string
	Entity *crm.Entity
	Error  error
}

// GetError returns the job error
func (r *DescribeResult) GetError() error {
	return r.Error
}

// BatchProcessor describes many identifiers concurrently
type BatchProcessor struct {
	describer   Describer
	concurrency int
}

// NewBatchProcessor creates a batch processor running concurrency jobs at a time
func NewBatchProcessor(describer Describer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		describer:   describer,
		concurrency: concurrency,
	}
}

// ProcessIDs describes every identifier and returns results in input order.
// Identifiers not reached before ctx is cancelled are reported with its error.
func (b *BatchProcessor) ProcessIDs(ctx context.Context, ids []string) []*DescribeResult {
	if len(ids) == 0 {
		return []*DescribeResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	defer pool.Shutdown()

	go func() {
		defer pool.Close()
		for i, id := range ids {
			if !pool.Submit(&DescribeJob{Index: i, ID: id, Describer: b.describer}) {
				return
			}
		}
	}()

	out := make([]*DescribeResult, len(ids))
	for r := range pool.Results() {
		res := r.(*DescribeResult)
		out[res.Index] = res
	}

	for i, res := range out {
		if res == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			out[i] = &DescribeResult{Index: i, ID: ids[i], Error: err}
		}
	}
	return out
}

// ProcessFile reads identifiers from a file and describes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*DescribeResult, error) {
	ids, err := ReadIDsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read identifiers: %w", err)
	}
	return b.ProcessIDs(ctx, ids), nil
}

// ReadIDsFromFile reads identifiers, one per line. Blank lines and # comments
// are skipped; a leading "ulan:" prefix or a full ULAN IRI is reduced to
// the numeric identifier; duplicates are dropped.
func ReadIDsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var ids []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		id := trimIdentifier(line)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return ids, nil
}

func trimIdentifier(s string) string {
	s = strings.TrimSuffix(s, ".ttl")
	s = strings.TrimSuffix(s, ".json")
	if i := strings.LastIndexAny(s, "/:"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// WriteResults writes each successful result to <dir>/<id>.json and returns
// the number of files written.
func WriteResults(dir string, results []*DescribeResult) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	written := 0
	for _, r := range results {
		if r.Error != nil || r.Entity == nil {
			continue
		}

		data, err := crm.Marshal(r.Entity)
		if err != nil {
			return written, fmt.Errorf("marshal %s: %w", r.ID, err)
		}
		if err := os.WriteFile(filepath.Join(dir, r.ID+".json"), data, 0644); err != nil {
			return written, fmt.Errorf("write %s: %w", r.ID, err)
		}
		written++
	}
	return written, nil
}

// Failed returns the failed results ordered by identifier
func Failed(results []*DescribeResult) []*DescribeResult {
	var out []*DescribeResult
	for _, r := range results {
		if r.Error != nil {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
