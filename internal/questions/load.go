package questions

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// DefaultBankFile is the file name of the question bank.
const DefaultBankFile = "questions.json"

// maxBankSize bounds how much of a remote bank is read.
const maxBankSize = 16 << 20

// Load reads and normalizes the question bank at source, which is either a
// local path or an http(s) URL fetched with client.
func Load(ctx context.Context, client *http.Client, source string) ([]Question, error) {
	if !isURL(source) {
		raw, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read question bank: %w", err)
		}
		return Parse(raw)
	}

	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch question bank: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch question bank: status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBankSize))
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	return Parse(raw)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
