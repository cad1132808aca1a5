package proxmox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Typed helpers over the four verbs for the common parts of the management
// tree. Each one is path building plus a single request; no extra semantics.
// They always speak the JSON wire format, independent of the client's
// configured response type, so the decoded payloads stay well-defined.

// doJSON issues one request against the JSON API path and decodes the data
// envelope into out (pass nil to discard).
func (c *Client) doJSON(ctx context.Context, method, path string, params any, out any) error {
	vals, err := normalizeParams(params)
	if err != nil {
		return err
	}

	reqURL := c.apiURL(FormatJSON, path)
	var body string
	switch method {
	case http.MethodGet, http.MethodDelete:
		if len(vals) > 0 {
			reqURL += "?" + vals.Encode()
		}
	default:
		body = vals.Encode()
	}

	req, err := newFormRequest(ctx, method, reqURL, body)
	if err != nil {
		return err
	}
	c.attachToken(req, method)

	status, raw, err := c.exec.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if status >= http.StatusBadRequest {
		return fmt.Errorf("%w: server returned %d for %s %s", ErrTransport, status, method, path)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}

	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrTransport, err)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: decode data payload: %v", ErrTransport, err)
	}
	return nil
}

// taskPost issues a POST that the server answers with a task UPID.
func (c *Client) taskPost(ctx context.Context, path string, params any) (string, error) {
	var upid string
	if err := c.doJSON(ctx, http.MethodPost, path, params, &upid); err != nil {
		return "", err
	}
	return upid, nil
}

// Version returns the API version of the server.
func (c *Client) Version(ctx context.Context) (VersionInfo, error) {
	var v VersionInfo
	err := c.doJSON(ctx, http.MethodGet, "/version", nil, &v)
	return v, err
}

// ClusterStatus returns cluster and node rows from /cluster/status.
func (c *Client) ClusterStatus(ctx context.Context) ([]ClusterStatusEntry, error) {
	var entries []ClusterStatusEntry
	err := c.doJSON(ctx, http.MethodGet, "/cluster/status", nil, &entries)
	return entries, err
}

// ClusterResources returns the flat resource table from /cluster/resources.
// kind optionally filters server-side (vm, storage, node, sdn).
func (c *Client) ClusterResources(ctx context.Context, kind string) ([]ClusterResource, error) {
	var params any
	if kind != "" {
		params = map[string]string{"type": kind}
	}
	var res []ClusterResource
	err := c.doJSON(ctx, http.MethodGet, "/cluster/resources", params, &res)
	return res, err
}

// ClusterNextID returns the next free VMID.
func (c *Client) ClusterNextID(ctx context.Context) (string, error) {
	var id json.Number
	if err := c.doJSON(ctx, http.MethodGet, "/cluster/nextid", nil, &id); err != nil {
		return "", err
	}
	return id.String(), nil
}

// Nodes lists cluster nodes.
func (c *Client) Nodes(ctx context.Context) ([]Node, error) {
	var nodes []Node
	err := c.doJSON(ctx, http.MethodGet, "/nodes", nil, &nodes)
	return nodes, err
}

// NodeStatus returns the status document of one node as a generic mapping
// (the payload shape varies across PVE versions).
func (c *Client) NodeStatus(ctx context.Context, node string) (map[string]any, error) {
	var status map[string]any
	err := c.doJSON(ctx, http.MethodGet, "/nodes/"+url.PathEscape(node)+"/status", nil, &status)
	return status, err
}

// NodeNetworks lists the network interfaces of a node.
func (c *Client) NodeNetworks(ctx context.Context, node string) ([]NodeNetwork, error) {
	var nets []NodeNetwork
	err := c.doJSON(ctx, http.MethodGet, "/nodes/"+url.PathEscape(node)+"/network", nil, &nets)
	return nets, err
}

// NodeTasks lists recent tasks on a node.
func (c *Client) NodeTasks(ctx context.Context, node string) ([]TaskStatus, error) {
	var tasks []TaskStatus
	err := c.doJSON(ctx, http.MethodGet, "/nodes/"+url.PathEscape(node)+"/tasks", nil, &tasks)
	return tasks, err
}

// TaskStatus reads the status of one task.
func (c *Client) TaskStatus(ctx context.Context, node, upid string) (TaskStatus, error) {
	var ts TaskStatus
	path := fmt.Sprintf("/nodes/%s/tasks/%s/status", url.PathEscape(node), url.PathEscape(upid))
	err := c.doJSON(ctx, http.MethodGet, path, nil, &ts)
	return ts, err
}

// QemuVMs lists QEMU virtual machines on a node.
func (c *Client) QemuVMs(ctx context.Context, node string) ([]VM, error) {
	var vms []VM
	err := c.doJSON(ctx, http.MethodGet, "/nodes/"+url.PathEscape(node)+"/qemu", nil, &vms)
	return vms, err
}

// LXCs lists containers on a node.
func (c *Client) LXCs(ctx context.Context, node string) ([]VM, error) {
	var cts []VM
	err := c.doJSON(ctx, http.MethodGet, "/nodes/"+url.PathEscape(node)+"/lxc", nil, &cts)
	return cts, err
}

func vmStatusPath(node string, vmid int, action string) string {
	return fmt.Sprintf("/nodes/%s/qemu/%d/status/%s", url.PathEscape(node), vmid, action)
}

// StartVM starts a QEMU VM and returns the task UPID.
func (c *Client) StartVM(ctx context.Context, node string, vmid int) (string, error) {
	return c.taskPost(ctx, vmStatusPath(node, vmid, "start"), nil)
}

// StopVM hard-stops a QEMU VM and returns the task UPID.
func (c *Client) StopVM(ctx context.Context, node string, vmid int) (string, error) {
	return c.taskPost(ctx, vmStatusPath(node, vmid, "stop"), nil)
}

// ShutdownVM requests a clean guest shutdown and returns the task UPID.
func (c *Client) ShutdownVM(ctx context.Context, node string, vmid int) (string, error) {
	return c.taskPost(ctx, vmStatusPath(node, vmid, "shutdown"), nil)
}

// ResetVM resets a QEMU VM and returns the task UPID.
func (c *Client) ResetVM(ctx context.Context, node string, vmid int) (string, error) {
	return c.taskPost(ctx, vmStatusPath(node, vmid, "reset"), nil)
}

// SuspendVM suspends a QEMU VM and returns the task UPID.
func (c *Client) SuspendVM(ctx context.Context, node string, vmid int) (string, error) {
	return c.taskPost(ctx, vmStatusPath(node, vmid, "suspend"), nil)
}

// ResumeVM resumes a suspended QEMU VM and returns the task UPID.
func (c *Client) ResumeVM(ctx context.Context, node string, vmid int) (string, error) {
	return c.taskPost(ctx, vmStatusPath(node, vmid, "resume"), nil)
}

// Storages lists storage definitions, optionally filtered by type.
func (c *Client) Storages(ctx context.Context, storageType string) ([]Storage, error) {
	var params any
	if storageType != "" {
		params = map[string]string{"type": storageType}
	}
	var st []Storage
	err := c.doJSON(ctx, http.MethodGet, "/storage", params, &st)
	return st, err
}

// CreateStorage adds a storage definition; params carries the type-specific
// settings (storage, type, content, path, ...).
func (c *Client) CreateStorage(ctx context.Context, params any) error {
	return c.doJSON(ctx, http.MethodPost, "/storage", params, nil)
}

// SetStorage updates a storage definition.
func (c *Client) SetStorage(ctx context.Context, storage string, params any) error {
	return c.doJSON(ctx, http.MethodPut, "/storage/"+url.PathEscape(storage), params, nil)
}

// DeleteStorage removes a storage definition.
func (c *Client) DeleteStorage(ctx context.Context, storage string) error {
	return c.doJSON(ctx, http.MethodDelete, "/storage/"+url.PathEscape(storage), nil, nil)
}

// Pools lists resource pools.
func (c *Client) Pools(ctx context.Context) ([]Pool, error) {
	var pools []Pool
	err := c.doJSON(ctx, http.MethodGet, "/pools", nil, &pools)
	return pools, err
}

// Pool reads one pool with its members.
func (c *Client) Pool(ctx context.Context, poolID string) (PoolDetail, error) {
	var d PoolDetail
	err := c.doJSON(ctx, http.MethodGet, "/pools/"+url.PathEscape(poolID), nil, &d)
	return d, err
}

// CreatePool creates a resource pool.
func (c *Client) CreatePool(ctx context.Context, poolID, comment string) error {
	params := map[string]string{"poolid": poolID}
	if comment != "" {
		params["comment"] = comment
	}
	return c.doJSON(ctx, http.MethodPost, "/pools", params, nil)
}

// SetPool updates a pool's comment or membership.
func (c *Client) SetPool(ctx context.Context, poolID string, params any) error {
	return c.doJSON(ctx, http.MethodPut, "/pools/"+url.PathEscape(poolID), params, nil)
}

// DeletePool removes an empty pool.
func (c *Client) DeletePool(ctx context.Context, poolID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/pools/"+url.PathEscape(poolID), nil, nil)
}

// AccessDomains lists authentication realms.
func (c *Client) AccessDomains(ctx context.Context) ([]Domain, error) {
	var domains []Domain
	err := c.doJSON(ctx, http.MethodGet, "/access/domains", nil, &domains)
	return domains, err
}

// Users lists users.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var users []User
	err := c.doJSON(ctx, http.MethodGet, "/access/users", nil, &users)
	return users, err
}

// CreateUser adds a user; params carries userid plus optional attributes.
func (c *Client) CreateUser(ctx context.Context, params any) error {
	return c.doJSON(ctx, http.MethodPost, "/access/users", params, nil)
}

// Groups lists groups.
func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	var groups []Group
	err := c.doJSON(ctx, http.MethodGet, "/access/groups", nil, &groups)
	return groups, err
}

// Roles lists roles.
func (c *Client) Roles(ctx context.Context) ([]Role, error) {
	var roles []Role
	err := c.doJSON(ctx, http.MethodGet, "/access/roles", nil, &roles)
	return roles, err
}
