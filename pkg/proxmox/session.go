package proxmox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/virtops/proxmox-client/internal/httpclient"
	"github.com/virtops/proxmox-client/pkg/utils"
)

// AuthToken is the session credential handed out by the access/ticket
// endpoint. Read-only after login; attached to every subsequent request.
type AuthToken struct {
	CSRFPreventionToken string `json:"CSRFPreventionToken"`
	Ticket              string `json:"ticket"`
	Username            string `json:"username"`
}

type ticketResponse struct {
	Data *AuthToken `json:"data"`
}

// login performs the single ticket exchange. The login endpoint always speaks
// the JSON API path, whatever response format the client was configured with.
// Authentication failure is decided by the payload shape: a null or absent
// data object means the server rejected the credentials, regardless of the
// HTTP status code.
func login(ctx context.Context, logger *zap.Logger, exec *httpclient.Executor, cred Credential) (AuthToken, error) {
	endpoint := fmt.Sprintf("https://%s:%d/api2/json/access/ticket", cred.Hostname, cred.Port)

	form := url.Values{}
	form.Set("username", cred.Username)
	form.Set("password", cred.Password)
	form.Set("realm", cred.Realm)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return AuthToken{}, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	logger.Debug("proxmox.login_attempt",
		zap.String("endpoint", endpoint),
		zap.String("form", utils.MaskForm(form.Encode())))

	_, body, err := exec.Do(ctx, req)
	if err != nil {
		return AuthToken{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	var tr ticketResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return AuthToken{}, fmt.Errorf("%w: decode login response: %v", ErrTransport, err)
	}
	if tr.Data == nil {
		logger.Warn("proxmox.login_rejected", zap.String("user", cred.Username), zap.String("realm", cred.Realm))
		return AuthToken{}, fmt.Errorf("%w for user %q", ErrAuthenticationFailed, cred.Username)
	}

	logger.Info("proxmox.login_success",
		zap.String("user", tr.Data.Username),
		zap.String("host", cred.Hostname))
	return *tr.Data, nil
}
