package proxmox

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resourceStub replies with canned payloads per path and records requests.
func resourceStub(t *testing.T, payloads map[string]string) (*httptestRecorder, *Client) {
	t.Helper()
	rec := &httptestRecorder{}
	srv := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		rec.add(r.Method, r.URL.Path, r.Form.Encode())
		if body, ok := payloads[r.URL.Path]; ok {
			_, _ = w.Write([]byte(body))
			return
		}
		_, _ = w.Write([]byte(`{"data":null}`))
	})
	t.Cleanup(srv.Close)
	return rec, testClient(t, srv)
}

type recordedRequest struct {
	method, path, form string
}

type httptestRecorder struct {
	reqs []recordedRequest
}

func (r *httptestRecorder) add(method, path, form string) {
	r.reqs = append(r.reqs, recordedRequest{method, path, form})
}

func (r *httptestRecorder) last() recordedRequest {
	return r.reqs[len(r.reqs)-1]
}

func TestVersion(t *testing.T) {
	_, c := resourceStub(t, map[string]string{
		"/api2/json/version": `{"data":{"version":"8.2.4","release":"8.2","repoid":"faa83925"}}`,
	})

	v, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "8.2.4", v.Version)
	assert.Equal(t, "faa83925", v.RepoID)
}

func TestNodes(t *testing.T) {
	_, c := resourceStub(t, map[string]string{
		"/api2/json/nodes": `{"data":[
			{"node":"pve1","status":"online","maxcpu":16,"uptime":86400},
			{"node":"pve2","status":"offline"}]}`,
	})

	nodes, err := c.Nodes(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "pve1", nodes[0].Node)
	assert.Equal(t, int64(86400), nodes[0].Uptime)
	assert.Equal(t, "offline", nodes[1].Status)
}

func TestClusterStatus(t *testing.T) {
	_, c := resourceStub(t, map[string]string{
		"/api2/json/cluster/status": `{"data":[
			{"id":"cluster","type":"cluster","name":"lab","nodes":2,"quorate":1},
			{"id":"node/pve1","type":"node","name":"pve1","online":1,"local":1,"ip":"10.0.0.1"}]}`,
	})

	entries, err := c.ClusterStatus(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "cluster", entries[0].Type)
	assert.Equal(t, 1, entries[0].Quorate)
	assert.Equal(t, "10.0.0.1", entries[1].IP)
}

func TestClusterResourcesFilter(t *testing.T) {
	rec, c := resourceStub(t, map[string]string{
		"/api2/json/cluster/resources": `{"data":[{"id":"qemu/100","type":"qemu","node":"pve1","vmid":100,"status":"running"}]}`,
	})

	res, err := c.ClusterResources(context.Background(), "vm")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, 100, res[0].VMID)
	assert.Equal(t, "type=vm", rec.last().form, "kind filter is passed server-side")
}

func TestClusterNextID(t *testing.T) {
	_, c := resourceStub(t, map[string]string{
		"/api2/json/cluster/nextid": `{"data":"105"}`,
	})

	id, err := c.ClusterNextID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "105", id)
}

func TestQemuListAndLifecycle(t *testing.T) {
	rec, c := resourceStub(t, map[string]string{
		"/api2/json/nodes/pve1/qemu": `{"data":[{"vmid":100,"name":"web","status":"running","cpus":2}]}`,
		"/api2/json/nodes/pve1/qemu/100/status/start": `{"data":"UPID:pve1:0001:start"}`,
		"/api2/json/nodes/pve1/qemu/100/status/stop":  `{"data":"UPID:pve1:0002:stop"}`,
	})
	ctx := context.Background()

	vms, err := c.QemuVMs(ctx, "pve1")
	require.NoError(t, err)
	require.Len(t, vms, 1)
	assert.Equal(t, "web", vms[0].Name)
	assert.Equal(t, "100", vms[0].VMID.String())

	upid, err := c.StartVM(ctx, "pve1", 100)
	require.NoError(t, err)
	assert.Equal(t, "UPID:pve1:0001:start", upid)
	assert.Equal(t, http.MethodPost, rec.last().method)

	upid, err = c.StopVM(ctx, "pve1", 100)
	require.NoError(t, err)
	assert.Equal(t, "UPID:pve1:0002:stop", upid)
	assert.Equal(t, "/api2/json/nodes/pve1/qemu/100/status/stop", rec.last().path)
}

func TestNodeDetails(t *testing.T) {
	_, c := resourceStub(t, map[string]string{
		"/api2/json/nodes/pve1/status": `{"data":{"uptime":86400,"loadavg":["0.10","0.08","0.05"],"kversion":"6.8.4-pve"}}`,
		"/api2/json/nodes/pve1/network": `{"data":[
			{"iface":"vmbr0","type":"bridge","active":1,"address":"10.0.0.1","netmask":"255.255.255.0","gateway":"10.0.0.254","method":"static"},
			{"iface":"eno1","type":"eth","active":1}]}`,
		"/api2/json/nodes/pve1/tasks": `{"data":[{"upid":"UPID:pve1:0009:qmstart","node":"pve1","type":"qmstart","status":"running","user":"root@pam","starttime":1700000000}]}`,
	})
	ctx := context.Background()

	status, err := c.NodeStatus(ctx, "pve1")
	require.NoError(t, err)
	assert.Equal(t, "6.8.4-pve", status["kversion"])
	assert.EqualValues(t, 86400, status["uptime"])

	nets, err := c.NodeNetworks(ctx, "pve1")
	require.NoError(t, err)
	require.Len(t, nets, 2)
	assert.Equal(t, "vmbr0", nets[0].Iface)
	assert.Equal(t, "10.0.0.254", nets[0].Gateway)
	assert.Equal(t, "eth", nets[1].Type)

	tasks, err := c.NodeTasks(ctx, "pve1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "running", tasks[0].Status)
	assert.Equal(t, int64(1700000000), tasks[0].StartTime)
}

func TestLXCs(t *testing.T) {
	rec, c := resourceStub(t, map[string]string{
		"/api2/json/nodes/pve1/lxc": `{"data":[{"vmid":"201","name":"dns","status":"running","uptime":3600}]}`,
	})

	cts, err := c.LXCs(context.Background(), "pve1")
	require.NoError(t, err)
	require.Len(t, cts, 1)
	// lxc rows report the vmid as a string; the listing decodes it either way.
	assert.Equal(t, "201", cts[0].VMID.String())
	assert.Equal(t, "dns", cts[0].Name)
	assert.Equal(t, "/api2/json/nodes/pve1/lxc", rec.last().path)
}

func TestCreateUser(t *testing.T) {
	rec, c := resourceStub(t, nil)

	err := c.CreateUser(context.Background(), map[string]string{
		"userid":  "monitor@pve",
		"comment": "read-only monitor",
	})
	require.NoError(t, err)
	created := rec.last()
	assert.Equal(t, http.MethodPost, created.method)
	assert.Equal(t, "/api2/json/access/users", created.path)
	assert.Contains(t, created.form, "userid=monitor%40pve")
	assert.Contains(t, created.form, "comment=read-only+monitor")
}

func TestTaskStatusPath(t *testing.T) {
	upid := "UPID:pve1:0001:start"
	rec, c := resourceStub(t, map[string]string{
		"/api2/json/nodes/pve1/tasks/" + upid + "/status": `{"data":{"upid":"` + upid + `","node":"pve1","type":"qmstart","status":"stopped","exitstatus":"OK"}}`,
	})

	ts, err := c.TaskStatus(context.Background(), "pve1", upid)
	require.NoError(t, err)
	assert.Equal(t, "stopped", ts.Status)
	assert.Equal(t, "OK", ts.ExitStatus)
	assert.Equal(t, http.MethodGet, rec.last().method)
}

func TestPoolCRUD(t *testing.T) {
	rec, c := resourceStub(t, map[string]string{
		"/api2/json/pools":     `{"data":[{"poolid":"dev","comment":"dev pool"}]}`,
		"/api2/json/pools/dev": `{"data":{"comment":"dev pool","members":[{"id":"qemu/100","type":"qemu","vmid":100}]}}`,
	})
	ctx := context.Background()

	pools, err := c.Pools(ctx)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	assert.Equal(t, "dev", pools[0].PoolID)

	detail, err := c.Pool(ctx, "dev")
	require.NoError(t, err)
	require.Len(t, detail.Members, 1)
	assert.Equal(t, 100, detail.Members[0].VMID)

	require.NoError(t, c.CreatePool(ctx, "qa", "qa pool"))
	created := rec.last()
	assert.Equal(t, http.MethodPost, created.method)
	assert.Equal(t, "/api2/json/pools", created.path)
	assert.Contains(t, created.form, "poolid=qa")
	assert.Contains(t, created.form, "comment=qa+pool")

	require.NoError(t, c.DeletePool(ctx, "qa"))
	assert.Equal(t, http.MethodDelete, rec.last().method)
	assert.Equal(t, "/api2/json/pools/qa", rec.last().path)
}

func TestStorageCRUD(t *testing.T) {
	rec, c := resourceStub(t, map[string]string{
		"/api2/json/storage": `{"data":[{"storage":"local","type":"dir","path":"/var/lib/vz","active":1}]}`,
	})
	ctx := context.Background()

	st, err := c.Storages(ctx, "")
	require.NoError(t, err)
	require.Len(t, st, 1)
	assert.Equal(t, "local", st[0].Storage)

	require.NoError(t, c.CreateStorage(ctx, map[string]string{
		"storage": "backup", "type": "dir", "path": "/mnt/backup",
	}))
	assert.Equal(t, http.MethodPost, rec.last().method)

	require.NoError(t, c.SetStorage(ctx, "backup", map[string]string{"content": "backup"}))
	assert.Equal(t, http.MethodPut, rec.last().method)
	assert.Equal(t, "/api2/json/storage/backup", rec.last().path)

	require.NoError(t, c.DeleteStorage(ctx, "backup"))
	assert.Equal(t, http.MethodDelete, rec.last().method)
}

func TestAccessListings(t *testing.T) {
	_, c := resourceStub(t, map[string]string{
		"/api2/json/access/domains": `{"data":[{"realm":"pam","type":"pam","default":1}]}`,
		"/api2/json/access/users":   `{"data":[{"userid":"root@pam","enable":1}]}`,
		"/api2/json/access/groups":  `{"data":[{"groupid":"admins"}]}`,
		"/api2/json/access/roles":   `{"data":[{"roleid":"PVEAdmin","special":1}]}`,
	})
	ctx := context.Background()

	domains, err := c.AccessDomains(ctx)
	require.NoError(t, err)
	require.Len(t, domains, 1)
	assert.Equal(t, "pam", domains[0].Realm)

	users, err := c.Users(ctx)
	require.NoError(t, err)
	assert.Equal(t, "root@pam", users[0].UserID)

	groups, err := c.Groups(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admins", groups[0].GroupID)

	roles, err := c.Roles(ctx)
	require.NoError(t, err)
	assert.Equal(t, "PVEAdmin", roles[0].RoleID)
}

func TestVNCProxyRequest(t *testing.T) {
	rec, c := resourceStub(t, map[string]string{
		"/api2/json/nodes/pve1/qemu/100/vncproxy": `{"data":{"ticket":"VNC:abc","port":"5900","upid":"UPID:pve1:0003:vncproxy"}}`,
	})

	p, err := c.VNCProxyQemu(context.Background(), "pve1", 100)
	require.NoError(t, err)
	assert.Equal(t, "VNC:abc", p.Ticket)
	assert.Equal(t, "5900", p.Port.String())
	assert.Equal(t, http.MethodPost, rec.last().method)
	assert.Contains(t, rec.last().form, "websocket=1")
}

func TestTypedHelpersIgnoreConfiguredFormat(t *testing.T) {
	// Typed helpers always speak JSON, even when the client renders extjs.
	var path string
	srv := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte(`{"data":{"version":"8.2.4"}}`))
	})
	defer srv.Close()
	c := testClient(t, srv, WithResponseType(FormatExtJS))

	v, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "8.2.4", v.Version)
	assert.Equal(t, "/api2/json/version", path)
}
