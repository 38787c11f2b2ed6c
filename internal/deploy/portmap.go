package deploy

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sort"

	"github.com/sarth-shah20/darp/internal/config"
)

// LoadPortMap reads the port map written by the last deploy. A missing file
// yields an empty map.
func LoadPortMap(path string) (PortMap, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return PortMap{}, nil
	}
	if err != nil {
		return nil, config.IOError("portmap", path, err, "reading port map %s", path)
	}
	var pm PortMap
	if err := json.Unmarshal(data, &pm); err != nil {
		return nil, config.IOError("portmap", path, err, "parsing port map %s", path)
	}
	if pm == nil {
		pm = PortMap{}
	}
	return pm, nil
}

// Lookup returns the port assigned to folder within domain.
func (pm PortMap) Lookup(domain, folder string) (int, bool) {
	port, ok := pm[domain][folder]
	return port, ok
}

// Domains returns the domain names in sorted order.
func (pm PortMap) Domains() []string {
	names := make([]string, 0, len(pm))
	for k := range pm {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Folders returns the folder names of a domain in sorted order.
func (pm PortMap) Folders(domain string) []string {
	names := make([]string, 0, len(pm[domain]))
	for k := range pm[domain] {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
