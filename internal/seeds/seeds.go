// Package seeds loads the spider's seeds file (spec §6): a JSON array of
// site objects, each becoming a depth-0 Link.
package seeds

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ecrawler/harvester/internal/pipeline"
)

// Site is one entry in the seeds file.
type Site struct {
	Website string `json:"website"`
	Name    string `json:"name"`
	Code    string `json:"code"`
}

// Load reads path and mints one depth-0, attempt-0 Link per site.
func Load(path string) ([]pipeline.Link, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seeds file: %w", err)
	}

	var sites []Site
	if err := json.Unmarshal(data, &sites); err != nil {
		return nil, fmt.Errorf("parse seeds file: %w", err)
	}

	links := make([]pipeline.Link, 0, len(sites))
	for _, s := range sites {
		links = append(links, pipeline.Link{
			URL:     s.Website,
			Website: s.Website,
			Name:    s.Name,
			Code:    s.Code,
			Depth:   0,
			Attempt: 0,
			Type:    pipeline.LinkTypePage,
		})
	}
	return links, nil
}
