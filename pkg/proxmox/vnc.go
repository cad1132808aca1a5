package proxmox

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/virtops/proxmox-client/pkg/utils"
)

// VNCProxyQemu asks the server for a VNC proxy ticket for a QEMU VM. The
// returned ticket and port feed VNCWebSocket; they are only valid briefly.
func (c *Client) VNCProxyQemu(ctx context.Context, node string, vmid int) (VNCProxy, error) {
	var p VNCProxy
	path := fmt.Sprintf("/nodes/%s/qemu/%d/vncproxy", url.PathEscape(node), vmid)
	err := c.doJSON(ctx, http.MethodPost, path, map[string]string{"websocket": "1"}, &p)
	return p, err
}

// VNCWebSocket upgrades the vncwebsocket endpoint for the given proxy ticket
// and returns the live connection. The session ticket rides as the auth
// cookie, same as on REST calls; the VNC ticket goes in the query string.
func (c *Client) VNCWebSocket(ctx context.Context, node string, vmid int, proxy VNCProxy) (*websocket.Conn, error) {
	q := url.Values{}
	q.Set("port", proxy.Port.String())
	q.Set("vncticket", proxy.Ticket)

	endpoint := fmt.Sprintf("wss://%s:%d/api2/json/nodes/%s/qemu/%d/vncwebsocket?%s",
		c.cred.Hostname, c.cred.Port, url.PathEscape(node), vmid, q.Encode())

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
		TLSClientConfig:  c.tlsCfg,
	}
	header := http.Header{}
	header.Set("Cookie", "PVEAuthCookie="+c.token.Ticket)

	c.logger.Debug("proxmox.vnc_dial",
		zap.String("node", node),
		zap.Int("vmid", vmid),
		zap.String("cookie", utils.MaskCookie(header.Get("Cookie"))))

	conn, resp, err := dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		c.logger.Warn("proxmox.vnc_dial_failed",
			zap.String("node", node),
			zap.Int("vmid", vmid),
			zap.Int("status", status),
			zap.Error(err))
		return nil, fmt.Errorf("%w: vnc websocket dial: %v", ErrTransport, err)
	}

	c.logger.Info("proxmox.vnc_connected", zap.String("node", node), zap.Int("vmid", vmid))
	return conn, nil
}
