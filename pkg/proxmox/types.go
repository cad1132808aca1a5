package proxmox

import "encoding/json"

// Payload records for the typed resource helpers. Field sets follow what the
// API actually returns; optional fields stay zero when absent.

// VersionInfo is the payload of GET /version.
type VersionInfo struct {
	Version string `json:"version"`
	Release string `json:"release"`
	RepoID  string `json:"repoid"`
}

// ClusterStatusEntry is one row of GET /cluster/status (the endpoint mixes
// cluster and node rows, discriminated by Type).
type ClusterStatusEntry struct {
	ID      string `json:"id"`
	Type    string `json:"type"` // "cluster" or "node"
	Name    string `json:"name"`
	Nodes   int    `json:"nodes,omitempty"`
	Quorate int    `json:"quorate,omitempty"`
	IP      string `json:"ip,omitempty"`
	Local   int    `json:"local,omitempty"`
	NodeID  int    `json:"nodeid,omitempty"`
	Online  int    `json:"online,omitempty"`
	Level   string `json:"level,omitempty"`
}

// ClusterResource is one row of GET /cluster/resources.
type ClusterResource struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"` // qemu, lxc, node, storage, pool
	Node    string  `json:"node,omitempty"`
	Name    string  `json:"name,omitempty"`
	Status  string  `json:"status,omitempty"`
	VMID    int     `json:"vmid,omitempty"`
	Pool    string  `json:"pool,omitempty"`
	Storage string  `json:"storage,omitempty"`
	CPU     float64 `json:"cpu,omitempty"`
	MaxCPU  float64 `json:"maxcpu,omitempty"`
	Mem     int64   `json:"mem,omitempty"`
	MaxMem  int64   `json:"maxmem,omitempty"`
	Disk    int64   `json:"disk,omitempty"`
	MaxDisk int64   `json:"maxdisk,omitempty"`
	Uptime  int64   `json:"uptime,omitempty"`
}

// Node is one row of GET /nodes.
type Node struct {
	Node    string  `json:"node"`
	Status  string  `json:"status"`
	CPU     float64 `json:"cpu,omitempty"`
	MaxCPU  int     `json:"maxcpu,omitempty"`
	Mem     int64   `json:"mem,omitempty"`
	MaxMem  int64   `json:"maxmem,omitempty"`
	Disk    int64   `json:"disk,omitempty"`
	MaxDisk int64   `json:"maxdisk,omitempty"`
	Uptime  int64   `json:"uptime,omitempty"`
	Level   string  `json:"level,omitempty"`
}

// NodeNetwork is one row of GET /nodes/{node}/network.
type NodeNetwork struct {
	Iface    string          `json:"iface"`
	Type     string          `json:"type"`
	Active   int             `json:"active,omitempty"`
	Address  string          `json:"address,omitempty"`
	Netmask  string          `json:"netmask,omitempty"`
	Gateway  string          `json:"gateway,omitempty"`
	Method   string          `json:"method,omitempty"`
	Families json.RawMessage `json:"families,omitempty"`
}

// VM is one row of GET /nodes/{node}/qemu or /nodes/{node}/lxc.
type VM struct {
	VMID   json.Number `json:"vmid"`
	Name   string      `json:"name"`
	Status string      `json:"status"`
	CPU    float64     `json:"cpu,omitempty"`
	CPUs   int         `json:"cpus,omitempty"`
	Mem    int64       `json:"mem,omitempty"`
	MaxMem int64       `json:"maxmem,omitempty"`
	Uptime int64       `json:"uptime,omitempty"`
	PID    json.Number `json:"pid,omitempty"`
}

// Storage is one row of GET /storage or /nodes/{node}/storage.
type Storage struct {
	Storage string `json:"storage"`
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	Path    string `json:"path,omitempty"`
	Active  int    `json:"active,omitempty"`
	Enabled int    `json:"enabled,omitempty"`
	Shared  int    `json:"shared,omitempty"`
	Total   int64  `json:"total,omitempty"`
	Used    int64  `json:"used,omitempty"`
	Avail   int64  `json:"avail,omitempty"`
}

// Pool is one row of GET /pools.
type Pool struct {
	PoolID  string `json:"poolid"`
	Comment string `json:"comment,omitempty"`
}

// PoolDetail is the payload of GET /pools/{poolid}.
type PoolDetail struct {
	Comment string            `json:"comment,omitempty"`
	Members []ClusterResource `json:"members,omitempty"`
}

// User is one row of GET /access/users.
type User struct {
	UserID    string `json:"userid"`
	Comment   string `json:"comment,omitempty"`
	Email     string `json:"email,omitempty"`
	Enable    int    `json:"enable,omitempty"`
	Expire    int64  `json:"expire,omitempty"`
	FirstName string `json:"firstname,omitempty"`
	LastName  string `json:"lastname,omitempty"`
}

// Group is one row of GET /access/groups.
type Group struct {
	GroupID string `json:"groupid"`
	Comment string `json:"comment,omitempty"`
}

// Role is one row of GET /access/roles.
type Role struct {
	RoleID  string `json:"roleid"`
	Privs   string `json:"privs,omitempty"`
	Special int    `json:"special,omitempty"`
}

// Domain is one row of GET /access/domains.
type Domain struct {
	Realm   string `json:"realm"`
	Type    string `json:"type"`
	Comment string `json:"comment,omitempty"`
	Default int    `json:"default,omitempty"`
}

// TaskStatus is the payload of GET /nodes/{node}/tasks/{upid}/status.
type TaskStatus struct {
	UPID       string      `json:"upid"`
	Node       string      `json:"node"`
	Type       string      `json:"type"`
	Status     string      `json:"status"` // running or stopped
	ExitStatus string      `json:"exitstatus,omitempty"`
	User       string      `json:"user,omitempty"`
	PID        json.Number `json:"pid,omitempty"`
	StartTime  int64       `json:"starttime,omitempty"`
}

// VNCProxy is the payload of POST /nodes/{node}/qemu/{vmid}/vncproxy.
type VNCProxy struct {
	Ticket string      `json:"ticket"`
	Port   json.Number `json:"port"`
	UPID   string      `json:"upid,omitempty"`
	User   string      `json:"user,omitempty"`
	Cert   string      `json:"cert,omitempty"`
}
