// Package deploy assigns reverse-proxy ports to service folders and renders
// the hosts fragment, nginx vhost config and port map from that assignment.
package deploy

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sarth-shah20/darp/internal/config"
)

// BasePort is the first port handed out by a deploy.
const BasePort = 50100

// TLD is the top-level domain every generated URL lives under.
const TLD = "test"

// Assignment is one (domain, folder, port) triple.
type Assignment struct {
	Domain string
	Folder string
	Port   int
}

// Host returns the hostname served for the assignment.
func (a Assignment) Host() string {
	return a.Folder + "." + a.Domain + "." + TLD
}

// PortMap is domain name -> folder name -> port.
type PortMap map[string]map[string]int

// Result holds everything a deploy produces.
type Result struct {
	Assignments []Assignment
	Hosts       string
	VHosts      string
	PortMap     PortMap
}

// Generate scans every domain's location and assigns ports in a stable order:
// domains by location key, folders by name.
func Generate(cfg *config.Config, gateway string) (*Result, error) {
	keys := cfg.DomainKeys()
	if len(keys) == 0 {
		return nil, config.Precondition("domain", "", "no domains configured, run 'darp config add domain <location>' first")
	}

	res := &Result{PortMap: PortMap{}}
	var hosts, vhosts strings.Builder
	port := BasePort

	for _, key := range keys {
		d := cfg.Domains[key]
		folders, err := ServiceFolders(key)
		if err != nil {
			return nil, err
		}
		res.PortMap[d.Name] = map[string]int{}
		for _, folder := range folders {
			a := Assignment{Domain: d.Name, Folder: folder, Port: port}
			port++

			res.Assignments = append(res.Assignments, a)
			res.PortMap[a.Domain][a.Folder] = a.Port

			hosts.WriteString(HostsLine("0.0.0.0", a.Host()))
			vhosts.WriteString(ServerBlock(a.Host(), gateway, a.Port))
		}
	}

	res.Hosts = hosts.String()
	res.VHosts = vhosts.String()
	return res, nil
}

// ServiceFolders lists the immediate subdirectories of location, sorted.
func ServiceFolders(location string) ([]string, error) {
	entries, err := os.ReadDir(location)
	if err != nil {
		return nil, config.IOError("domain", location, err, "reading domain directory %s", location)
	}
	var folders []string
	for _, e := range entries {
		if e.IsDir() {
			folders = append(folders, e.Name())
		}
	}
	sort.Strings(folders)
	return folders, nil
}

// HostsLine renders one hosts-file entry.
func HostsLine(ip, host string) string {
	return ip + "   " + host + "\n"
}

// ServerBlock renders the nginx server block proxying host to gateway:port.
func ServerBlock(host, gateway string, port int) string {
	return fmt.Sprintf(`server {
    listen 80;
    server_name %s;
    location / {
        proxy_pass http://%s:%d/;
        proxy_set_header Host $host;
    }
}
`, host, gateway, port)
}

// LoopbackHosts renders the assignments as 127.0.0.1 entries for the system hosts file.
func (r *Result) LoopbackHosts() []string {
	lines := make([]string, 0, len(r.Assignments))
	for _, a := range r.Assignments {
		lines = append(lines, strings.TrimSuffix(HostsLine("127.0.0.1", a.Host()), "\n"))
	}
	return lines
}

// Write persists the three artifacts. Each file is replaced atomically.
func (r *Result) Write(paths config.Paths) error {
	pm, err := json.MarshalIndent(r.PortMap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling port map: %w", err)
	}
	if err := config.WriteFileAtomic(paths.HostsContainer, []byte(r.Hosts)); err != nil {
		return err
	}
	if err := config.WriteFileAtomic(paths.VHostConf, []byte(r.VHosts)); err != nil {
		return err
	}
	return config.WriteFileAtomic(paths.PortMap, pm)
}
